package ui

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/panecast/panecast/internal/capture"
	"github.com/panecast/panecast/internal/signaling"
	"github.com/panecast/panecast/internal/utils"
)

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetTitle(title)
	return t
}

// DeviceTableView renders the enumerable capture sources.
func DeviceTableView(devices []capture.Device) string {
	if len(devices) == 0 {
		return MutedStyle.Render("No capture sources found")
	}

	t := newTable("Capture Sources")
	t.AppendHeader(table.Row{"#", "ID", "Name"})
	for i, d := range devices {
		t.AppendRow(table.Row{i + 1, d.ID, utils.TruncateString(d.Name, 50)})
	}
	return t.Render()
}

// RenderDeviceTable outputs the device table directly to stdout.
func RenderDeviceTable(devices []capture.Device) {
	fmt.Println(DeviceTableView(devices))
}

// RosterTableView renders a participant roster.
func RosterTableView(roster []signaling.Participant, selfID string) string {
	if len(roster) == 0 {
		return MutedStyle.Render("Roster is empty")
	}

	t := newTable("Participants")
	t.AppendHeader(table.Row{"ID", "Name", "Connected", ""})
	for _, p := range roster {
		marker := ""
		if p.ID == selfID {
			marker = "self"
		}
		t.AppendRow(table.Row{p.ID, utils.TruncateString(p.Name, 40), p.Connected, marker})
	}
	return t.Render()
}

// RenderRosterTable outputs the roster table directly to stdout.
func RenderRosterTable(roster []signaling.Participant, selfID string) {
	fmt.Println(RosterTableView(roster, selfID))
}
