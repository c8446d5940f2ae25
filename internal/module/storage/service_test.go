package storage

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := &Service{log: zap.NewNop()}

	_, err := svc.Upload(context.Background(), "avatars", "track.mp3", "audio/mpeg", 10, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := &Service{log: zap.NewNop()}

	_, err := svc.Upload(context.Background(), "avatars", "big.png", "image/png", MaxUploadSize+1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestObjectKeyShape(t *testing.T) {
	key := objectKey("avatars", "me.png")
	assert.Regexp(t, regexp.MustCompile(`^avatars/\d+_[0-9a-f]{8}_me\.png$`), key)
}

func TestObjectKeySanitizesFolderAndFilename(t *testing.T) {
	key := objectKey("", "photo.jpg")
	assert.True(t, strings.HasPrefix(key, "uploads/"), key)

	key = objectKey("../secrets", "photo.jpg")
	assert.True(t, strings.HasPrefix(key, "uploads/"), key)

	key = objectKey("albums", "../../etc/passwd")
	assert.Regexp(t, regexp.MustCompile(`^albums/\d+_[0-9a-f]{8}_passwd$`), key)
}
