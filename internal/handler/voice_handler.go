package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"mapchat/internal/app/chat"
	"mapchat/internal/pkg/errs"
	"mapchat/internal/pkg/randx"
	"mapchat/internal/pkg/req"
	"mapchat/internal/pkg/resp"
)

// PresignVoiceUploadInput defines the JSON input structure for generating a voice clip upload URL.
type PresignVoiceUploadInput struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// HandlePresignVoiceUpload creates an HTTP HandlerFunc that generates a
// time-limited, pre-signed URL for uploading a voice clip. The returned key is
// what the client puts in its message:voice audioUrl field; the hub rewrites
// it to a download URL on relay. The clip is tracked for retention deletion
// from the moment the URL is issued.
func HandlePresignVoiceUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.StorageService == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageDisabled))
			return
		}

		var input PresignVoiceUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := chat.ValidateVoiceClipSize(input.FileSize); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if err := chat.ValidateVoiceClipType(input.FileName, input.MimeType); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		clipExt := strings.ToLower(filepath.Ext(input.FileName))
		clipKey := randx.ObjectKey(chat.VoiceKeyPrefix, clipExt)

		url, err := deps.StorageService.PresignUpload(
			r.Context(),
			clipKey,
			input.MimeType,
			input.FileSize,
			chat.PresignedURLDuration,
		)

		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageFailed))
			return
		}

		if deps.Janitor != nil {
			deps.Janitor.Track(clipKey)
		}

		data := map[string]any{
			"presignedUrl": url,
			"clipKey":      clipKey,
			"fileName":     input.FileName,
		}
		resp.RespondSuccess(w, r, data)
	}
}
