package model

import (
	"strings"
	"time"
)

// DataRouter is one data router as reported by the fleet API. URL is
// directory-like; its log file lives at URL + "log_file".
type DataRouter struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	IsOnline     bool   `json:"is_online"`
	StagingClean bool   `json:"staging_directory_is_clean"`
}

// LogEntry is one line of the server's recent log feed, newest first.
type LogEntry struct {
	ID        int       `json:"pk"`
	Logger    string    `json:"logger_name"`
	CreatedAt time.Time `json:"create_time"`
	Level     string    `json:"get_level_display"`
	Message   string    `json:"message"`
}

// LogLevel groups the server's level names by how loudly they are shown.
type LogLevel int

const (
	LevelPlain LogLevel = iota
	LevelWarning
	LevelDanger

	levelCount
)

var levelClasses = [levelCount]string{
	LevelPlain:   "",
	LevelWarning: "warning",
	LevelDanger:  "danger",
}

func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "warning":
		return LevelWarning
	case "error", "critical":
		return LevelDanger
	}
	return LevelPlain
}

// Class is the row class of the level; empty for plain rows.
func (l LogLevel) Class() string {
	if l < LevelPlain || l >= levelCount {
		return ""
	}
	return levelClasses[l]
}

// Indicator is a good/bad status mark.
type Indicator struct {
	Good  bool   `json:"good"`
	Icon  string `json:"icon"`
	Class string `json:"class"`
}

const (
	GoodIcon  = "fa-check-circle"
	BadIcon   = "fa-times-circle"
	GoodClass = "text-success"
	BadClass  = "text-danger"
)

func NewIndicator(good bool) Indicator {
	if good {
		return Indicator{Good: true, Icon: GoodIcon, Class: GoodClass}
	}
	return Indicator{Icon: BadIcon, Class: BadClass}
}

type RouterRow struct {
	Name   string    `json:"name"`
	Online Indicator `json:"online"`
	Clean  Indicator `json:"clean"`
}

type LogRow struct {
	ID      int       `json:"id"`
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Logger  string    `json:"logger"`
	Message string    `json:"message"`
	Class   string    `json:"class,omitempty"`
}
