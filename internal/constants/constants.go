package constants

// Centralized constants for headers, env keys, routes and storage keys.
const (
	// Environment variable keys
	EnvConfigPath          = "KGM_CONFIG"
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
	HeaderNonce       = "X-KGM-Nonce"

	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"
	ContentTypeHTML = "text/html; charset=utf-8"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
	CacheControlPublic  = "public, max-age=86400"

	// Session / Cookie names
	CookieSessionName = "kgm_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Storage keys shared by the repository and the services.
const (
	MetaEmbed        = "_kgm_embed"
	MetaGameImage    = "_kgm_game_image"
	OptionActiveGame = "kgm_active_game"
)

// Anti-forgery actions.
const (
	NonceActionSaveEmbed     = "kgm_save_embed"
	NonceActionSaveGameImage = "kgm_save_game_image"
	NonceActionSettings      = "kgm_settings_group"
	NonceActionEditGame      = "kgm_edit_game"
	NonceActionUploadMedia   = "kgm_upload_media"
)

// Public output.
const (
	PlacementTag        = "kids_game_display"
	ActiveGameClassName = "kids-active-game"
)

// Routes used by the backend router
const (
	RouteHealth          = "/healthz"
	RouteVersion         = "/version"
	RouteMetrics         = "/metrics"
	RouteStatic          = "/static"
	RouteMedia           = "/media"
	RouteEmbedActive     = "/embed/active"
	RouteAuthGoogle      = "/auth/google/oauth2callback"
	RouteAuthLogout      = "/auth/logout"
	RouteAPIPrefix       = "/api"
	RouteRender          = "/render"
	RouteAdminAPIPrefix  = "/api/admin"
	RouteGames           = "/games"
	RouteGameByID        = "/games/:gameID"
	RouteGameEmbed       = "/games/:gameID/embed"
	RouteGameImage       = "/games/:gameID/image"
	RouteActiveGame      = "/active-game"
	RouteMediaUpload     = "/media"
	RouteMediaByID       = "/media/:mediaID"
	RouteNonce           = "/nonce"
	RouteMe              = "/me"
	RouteAdminPrefix     = "/admin"
	RouteAdminGames      = "/games"
	RouteAdminGameNew    = "/games/new"
	RouteAdminGameEdit   = "/games/:gameID/edit"
	RouteAdminGameSave   = "/games/:gameID"
	RouteAdminGameDelete = "/games/:gameID/delete"
	RouteAdminSettings   = "/settings"
	RouteAdminHelp       = "/instructions"
)

// Form field names used by the admin screens.
const (
	FormEmbed          = "kgm_embed"
	FormEmbedNonce     = "kgm_embed_nonce"
	FormGameImage      = "kgm_game_image"
	FormGameImageNonce = "kgm_game_image_nonce"
	FormActiveGame     = "kgm_active_game"
	FormSettingsNonce  = "kgm_settings_nonce"
	FormEditNonce      = "kgm_edit_nonce"
	FormTitle          = "post_title"
	FormStatus         = "post_status"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest      = "Invalid request"
	ErrMissingGoogleEnv    = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidGameID       = "Invalid game ID"
	ErrInvalidMediaID      = "Invalid media ID"
	ErrGameNotFound        = "Game not found"
	ErrMediaNotFound       = "Media not found"
	ErrFailedFetchGames    = "Failed to fetch games"
	ErrFailedCreateGame    = "Failed to create game"
	ErrFailedUpdateGame    = "Failed to update game"
	ErrFailedDeleteGame    = "Failed to delete game"
	ErrFailedSaveEmbed     = "Failed to save embed code"
	ErrFailedSaveImage     = "Failed to save game image"
	ErrFailedSaveSettings  = "Failed to save settings"
	ErrFailedUploadMedia   = "Failed to upload media"
	ErrTitleExceeds        = "Title exceeds 200 characters"
	ErrInvalidStatus       = "Status must be draft or published"
	ErrNotAllowed          = "You are not allowed to do that"
	ErrInvalidNonce        = "The link you followed has expired"
	ErrServiceUnavailable  = "Storage is unavailable"
	ErrMissingUpload       = "file is required"
	ErrUnsupportedImage    = "Unsupported image format"
	ErrNonceActionRequired = "action is required"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldGameID    = "game_id"
	LogFieldMediaID   = "media_id"
	LogFieldActor     = "actor"
	LogFieldAction    = "action"
	LogFieldKey       = "key"
	LogFieldSize      = "size"
	LogFieldAddr      = "addr"
	LogFieldRequestID = "request_id"
	LogFieldPath      = "path"
	LogFieldMethod    = "method"
	LogFieldStatus    = "status"
	LogFieldLatency   = "latency_ms"
)
