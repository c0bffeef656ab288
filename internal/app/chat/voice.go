package chat

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"time"

	"mapchat/internal/pkg/errs"
)

const (
	// MaxVoiceClipSizeMB is the maximum allowed voice clip size in megabytes.
	MaxVoiceClipSizeMB = 2

	// MaxVoiceClipSize is the maximum allowed voice clip size in bytes.
	MaxVoiceClipSize = MaxVoiceClipSizeMB * 1024 * 1024

	// MaxInlineAudioBytes is the threshold above which an inline data: URL clip
	// is offloaded to object storage instead of being relayed inline.
	MaxInlineAudioBytes = 64 * 1024

	// VoiceKeyPrefix is the object-key namespace for uploaded voice clips.
	VoiceKeyPrefix = "voice/"

	// PresignedURLDuration is how long presigned upload and download URLs stay valid.
	PresignedURLDuration = 5 * time.Minute

	// dataURLPrefix marks an inline base64 audio payload.
	dataURLPrefix = "data:"
)

// AllowedAudioMIMETypes defines the set of permitted MIME types for voice clips.
var AllowedAudioMIMETypes = map[string]struct{}{
	"audio/webm": {},
	"audio/ogg":  {},
	"audio/mpeg": {},
	"audio/mp4":  {},
}

// ExtToAudioMIME maps voice clip file extensions to their corresponding MIME types.
var ExtToAudioMIME = map[string]string{
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
}

// IsDataURL reports whether audioURL carries an inline data: payload.
func IsDataURL(audioURL string) bool {
	return strings.HasPrefix(audioURL, dataURLPrefix)
}

// IsVoiceKey reports whether audioURL references an object key in the voice namespace.
func IsVoiceKey(audioURL string) bool {
	return strings.HasPrefix(audioURL, VoiceKeyPrefix)
}

// ValidateVoiceClipSize checks if the provided clip size is within acceptable limits.
func ValidateVoiceClipSize(size int64) *errs.CustomError {
	if size <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if size > MaxVoiceClipSize {
		return errs.NewError(errs.ErrVoiceClipTooLarge)
	}

	return nil
}

// ValidateVoiceClipType checks that the file name extension and MIME type are
// allowed and agree with each other.
func ValidateVoiceClipType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)

	if _, ok := AllowedAudioMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrVoiceClipInvalid)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) < 2 {
		return errs.NewError(errs.ErrVoiceClipInvalid)
	}

	expectedMIME, ok := ExtToAudioMIME[ext]
	if !ok {
		return errs.NewError(errs.ErrVoiceClipInvalid)
	}

	if expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrVoiceClipInvalid)
	}

	return nil
}

// DecodeAudioDataURL decodes an inline "data:<mime>;base64,<payload>" audio URL.
// It returns the MIME type and the decoded bytes, enforcing the audio MIME
// allowlist and the maximum clip size.
func DecodeAudioDataURL(audioURL string) (string, []byte, *errs.CustomError) {
	rest, ok := strings.CutPrefix(audioURL, dataURLPrefix)
	if !ok {
		return "", nil, errs.NewError(errs.ErrVoiceClipInvalid)
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errs.NewError(errs.ErrVoiceClipInvalid)
	}

	mimeType, found := strings.CutSuffix(meta, ";base64")
	if !found {
		return "", nil, errs.NewError(errs.ErrVoiceClipInvalid)
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if _, allowed := AllowedAudioMIMETypes[mimeType]; !allowed {
		return "", nil, errs.NewError(errs.ErrVoiceClipInvalid)
	}

	// Base64 expands the payload by 4/3; cap the encoded length before decoding.
	if int64(len(encoded)) > (MaxVoiceClipSize*4)/3+4 {
		return "", nil, errs.NewError(errs.ErrVoiceClipTooLarge)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, errs.NewError(errs.ErrVoiceClipInvalid)
	}

	if validationErr := ValidateVoiceClipSize(int64(len(data))); validationErr != nil {
		return "", nil, validationErr
	}

	return mimeType, data, nil
}

// AudioExtForMIME returns the canonical file extension (with leading dot) for
// an allowed audio MIME type, or an empty string for unknown types.
func AudioExtForMIME(mimeType string) string {
	for ext, mime := range ExtToAudioMIME {
		if mime == strings.ToLower(mimeType) {
			return ext
		}
	}
	return ""
}
