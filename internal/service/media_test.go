package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/media"
)

func TestUploads_UploadAndDelete(t *testing.T) {
	m, _, mm := newTestManager()
	ctx := context.Background()
	nonce := okNonce(constants.NonceActionUploadMedia)

	a, url, err := m.Uploads.Upload(ctx, editor, nonce, "cover.png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if a.UploadedBy != editor.Email || url != "/media/cover.png?size=medium" {
		t.Fatalf("unexpected upload result: %+v %q", a, url)
	}
	thumb, err := m.Uploads.Resolve(ctx, a.ID, media.SizeThumbnail)
	if err != nil || thumb != "/media/cover.png?size=thumbnail" {
		t.Fatalf("Resolve: %q %v", thumb, err)
	}
	if err := m.Uploads.Delete(ctx, editor, nonce, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(mm.deleted) != 1 {
		t.Fatalf("expected media to be deleted")
	}
	if err := m.Uploads.Delete(ctx, editor, nonce, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploads_Rejections(t *testing.T) {
	m, _, _ := newTestManager()
	ctx := context.Background()

	if _, _, err := m.Uploads.Upload(ctx, subscriber, okNonce(constants.NonceActionUploadMedia), "a.png", []byte{1}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := m.Uploads.Upload(ctx, editor, "", "a.png", []byte{1}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing nonce, got %v", err)
	}
	if _, _, err := m.Uploads.Upload(ctx, editor, okNonce(constants.NonceActionUploadMedia), "a.txt", nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for unsupported data, got %v", err)
	}
}
