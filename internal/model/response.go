package model

import "time"

type ActionButton struct {
	Action string `json:"action"`
	Icon   string `json:"icon"`
	Class  string `json:"class"`
	Title  string `json:"title"`
}

// NodeRow is one rendered table row.
type NodeRow struct {
	Name        string         `json:"name"`
	Badge       Badge          `json:"badge"`
	ConfigText  string         `json:"configText"`
	ConfigError string         `json:"configError,omitempty"`
	Online      *bool          `json:"online,omitempty"`
	Actions     []ActionButton `json:"actions"`
}

type OverallView struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// ErrorIndicator is the non-blocking notice for the latest failure.
type ErrorIndicator struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	At      time.Time `json:"at"`
}

// FleetView is everything a renderer needs for one frame.
type FleetView struct {
	Cycle     uint64          `json:"cycle"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Rows      []NodeRow       `json:"rows"`
	Overall   OverallView     `json:"overall"`
	Routers   []RouterRow     `json:"routers"`
	Logs      []LogRow        `json:"logs"`
	Modal     LogModalState   `json:"modal"`
	LastError *ErrorIndicator `json:"lastError,omitempty"`
}

type DispatchResult struct {
	Node    string `json:"node"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type DispatchResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Results []DispatchResult `json:"results,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
