package service

import (
	"fleet-dashboard/internal/model"
)

// RenderRows turns a snapshot into table rows in snapshot order.
func RenderRows(snapshot model.FleetSnapshot) []model.NodeRow {
	rows := make([]model.NodeRow, len(snapshot.Entries))
	for i, entry := range snapshot.Entries {
		rows[i] = model.NodeRow{
			Name:        entry.Node.Name,
			Badge:       model.StatusBadge(entry.Node),
			ConfigText:  entry.Config.Text(),
			ConfigError: entry.ConfigError,
			Online:      entry.Node.IsOnline,
			Actions:     actionButtons(),
		}
	}
	return rows
}

func actionButtons() []model.ActionButton {
	actions := model.Actions()
	buttons := make([]model.ActionButton, len(actions))
	for i, a := range actions {
		buttons[i] = model.ActionButton{
			Action: a.String(),
			Icon:   a.Icon(),
			Class:  a.ButtonClass(),
			Title:  a.Title(),
		}
	}
	return buttons
}

// MaxLogRows caps the recent log panel.
const MaxLogRows = 10

func RenderRouters(routers []model.DataRouter) []model.RouterRow {
	rows := make([]model.RouterRow, len(routers))
	for i, r := range routers {
		rows[i] = model.RouterRow{
			Name:   r.Name,
			Online: model.NewIndicator(r.IsOnline),
			Clean:  model.NewIndicator(r.StagingClean),
		}
	}
	return rows
}

// RenderLogs keeps server order (newest first) up to MaxLogRows.
func RenderLogs(entries []model.LogEntry) []model.LogRow {
	if len(entries) > MaxLogRows {
		entries = entries[:MaxLogRows]
	}
	rows := make([]model.LogRow, len(entries))
	for i, e := range entries {
		rows[i] = model.LogRow{
			ID:      e.ID,
			Time:    e.CreatedAt,
			Level:   e.Level,
			Logger:  e.Logger,
			Message: e.Message,
			Class:   model.ParseLogLevel(e.Level).Class(),
		}
	}
	return rows
}
