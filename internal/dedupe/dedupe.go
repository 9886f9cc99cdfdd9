// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent work keyed by a string.
package dedupe

import "golang.org/x/sync/singleflight"

// RenditionGroup deduplicates image rendition generation requests keyed by
// "<media id>:<size class>", so concurrent resolves of a missing rendition
// run one resize.
var RenditionGroup singleflight.Group
