// Package command forwards menu commands to the hosted page over Wails
// events and tracks whether the page handled them.
package command

import "fmt"

// Command is a parameterless action implemented by the hosted page.
type Command int

const (
	Unknown Command = iota
	NewConversation
	OpenSettings
	ToggleSidebar
	ToggleSharedBackground
	StopAllResponses
	ClearConversation
	ClearAllHistory
)

var names = map[Command]string{
	NewConversation:        "new_conversation",
	OpenSettings:           "open_settings",
	ToggleSidebar:          "toggle_sidebar",
	ToggleSharedBackground: "toggle_shared_background",
	StopAllResponses:       "stop_all_responses",
	ClearConversation:      "clear_conversation",
	ClearAllHistory:        "clear_all_history",
}

// Page function invoked for each command. Clearing the current conversation
// is the same page action as starting a new one.
var functions = map[Command]string{
	NewConversation:        "newChat",
	OpenSettings:           "openSettings",
	ToggleSidebar:          "toggleSidebar",
	ToggleSharedBackground: "toggleSharedBg",
	StopAllResponses:       "stopAllResponses",
	ClearConversation:      "newChat",
	ClearAllHistory:        "clearAllHistory",
}

// All lists every known command.
func All() []Command {
	return []Command{
		NewConversation,
		OpenSettings,
		ToggleSidebar,
		ToggleSharedBackground,
		StopAllResponses,
		ClearConversation,
		ClearAllHistory,
	}
}

func (c Command) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Function returns the page function name, or "" for unknown commands.
func (c Command) Function() string {
	return functions[c]
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	_, ok := functions[c]
	return ok
}
