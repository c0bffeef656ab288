package chat

import (
	"encoding/base64"
	"testing"

	"mapchat/internal/pkg/errs"
)

func TestValidateVoiceClipSize(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		wantCode int
	}{
		{name: "zero", size: 0, wantCode: errs.ErrInvalidParams},
		{name: "negative", size: -1, wantCode: errs.ErrInvalidParams},
		{name: "one byte", size: 1},
		{name: "exactly at limit", size: MaxVoiceClipSize},
		{name: "one over limit", size: MaxVoiceClipSize + 1, wantCode: errs.ErrVoiceClipTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVoiceClipSize(tt.size)
			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error code %d, got nil", tt.wantCode)
			}
			if err.Code != tt.wantCode {
				t.Errorf("error code = %d, want %d", err.Code, tt.wantCode)
			}
		})
	}
}

func TestValidateVoiceClipType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		wantErr  bool
	}{
		{name: "webm", fileName: "clip.webm", mimeType: "audio/webm"},
		{name: "ogg", fileName: "clip.ogg", mimeType: "audio/ogg"},
		{name: "mp3", fileName: "clip.mp3", mimeType: "audio/mpeg"},
		{name: "m4a", fileName: "clip.m4a", mimeType: "audio/mp4"},
		{name: "mime case insensitive", fileName: "clip.webm", mimeType: "Audio/WebM"},
		{name: "extension case insensitive", fileName: "CLIP.WEBM", mimeType: "audio/webm"},
		{name: "disallowed mime", fileName: "clip.wav", mimeType: "audio/wav", wantErr: true},
		{name: "non audio mime", fileName: "clip.webm", mimeType: "video/webm", wantErr: true},
		{name: "no extension", fileName: "clip", mimeType: "audio/webm", wantErr: true},
		{name: "extension mime mismatch", fileName: "clip.mp3", mimeType: "audio/webm", wantErr: true},
		{name: "unknown extension", fileName: "clip.exe", mimeType: "audio/webm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVoiceClipType(tt.fileName, tt.mimeType)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeAudioDataURL(t *testing.T) {
	payload := []byte("fake-audio-bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("valid", func(t *testing.T) {
		mime, data, err := DecodeAudioDataURL("data:audio/webm;base64," + encoded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mime != "audio/webm" {
			t.Errorf("mime = %q, want audio/webm", mime)
		}
		if string(data) != string(payload) {
			t.Errorf("decoded payload mismatch: %q", data)
		}
	})

	t.Run("mime normalized to lowercase", func(t *testing.T) {
		mime, _, err := DecodeAudioDataURL("data:Audio/OGG;base64," + encoded)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mime != "audio/ogg" {
			t.Errorf("mime = %q, want audio/ogg", mime)
		}
	})

	invalid := []struct {
		name string
		url  string
	}{
		{name: "not a data url", url: "https://example.com/clip.webm"},
		{name: "missing comma", url: "data:audio/webm;base64" + encoded},
		{name: "missing base64 marker", url: "data:audio/webm," + encoded},
		{name: "disallowed mime", url: "data:audio/wav;base64," + encoded},
		{name: "corrupt base64", url: "data:audio/webm;base64,!!!not-base64!!!"},
		{name: "empty payload", url: "data:audio/webm;base64,"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeAudioDataURL(tt.url); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	t.Run("oversized encoded payload", func(t *testing.T) {
		// An encoded length just past the cap short-circuits before decoding.
		huge := make([]byte, (MaxVoiceClipSize*4)/3+8)
		for i := range huge {
			huge[i] = 'A'
		}
		_, _, err := DecodeAudioDataURL("data:audio/webm;base64," + string(huge))
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if err.Code != errs.ErrVoiceClipTooLarge {
			t.Errorf("error code = %d, want %d", err.Code, errs.ErrVoiceClipTooLarge)
		}
	})
}

func TestAudioExtForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{mime: "audio/webm", want: ".webm"},
		{mime: "audio/ogg", want: ".ogg"},
		{mime: "audio/mpeg", want: ".mp3"},
		{mime: "audio/mp4", want: ".m4a"},
		{mime: "Audio/WEBM", want: ".webm"},
		{mime: "audio/wav", want: ""},
		{mime: "", want: ""},
	}

	for _, tt := range tests {
		if got := AudioExtForMIME(tt.mime); got != tt.want {
			t.Errorf("AudioExtForMIME(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
