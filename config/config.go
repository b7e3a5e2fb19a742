package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("SP_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("SP_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("SP_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/sitepanel"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("SP_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetWebRoot is the directory holding the live page snapshots the panel
// edits and publishes.
func GetWebRoot() string {
	webRoot := os.Getenv("SP_WEB_ROOT")
	if webRoot == "" {
		webRoot = "www"
	}
	return webRoot
}

func GetBackupFolder() string {
	backupFolder := os.Getenv("SP_BACKUP_FOLDER")
	if backupFolder == "" {
		backupFolder = GetWebRoot() + "/backups"
	}
	return backupFolder
}

// GetDraftFolder is where interrupted editing sessions park their pending
// change sets until the next session resumes them.
func GetDraftFolder() string {
	draftFolder := os.Getenv("SP_DRAFT_FOLDER")
	if draftFolder == "" {
		draftFolder = GetDBFolderPath() + "/drafts"
	}
	return draftFolder
}

func GetPolicyPath() string {
	policyPath := os.Getenv("SP_POLICY_FILE")
	if policyPath == "" {
		policyPath = GetDBFolderPath() + "/panel.toml"
	}
	return policyPath
}
