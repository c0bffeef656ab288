package handler

import (
	"mapchat/internal/app/chat"
	"mapchat/internal/app/storage"
	"mapchat/internal/configs"
)

// AppDeps bundles the shared dependencies handed to every handler.
// StorageService and Janitor are nil when voice clip storage is not configured.
type AppDeps struct {
	Hub            *chat.Hub
	Config         *configs.AppConfig
	StorageService storage.StorageService
	Janitor        *storage.Janitor
}
