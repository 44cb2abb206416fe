// Package bridge publishes the shell's read-only capability object to the
// hosted page. A bootstrap script is served by the asset server and injected
// at the top of every HTML document, so it runs before any page script.
package bridge

import (
	"encoding/json"
	"fmt"
	"runtime"

	"ai-workbench/internal/command"
	"ai-workbench/internal/version"
)

const (
	// ScriptPath is where the asset server serves the bootstrap script.
	ScriptPath = "/shell/bridge.js"

	// GlobalName is the page global holding the capability object.
	GlobalName = "shellAPI"

	// EventOpenExternal carries new-window requests from the page.
	EventOpenExternal = "shell:open-external"
)

// Capabilities is everything the page may learn about its host.
type Capabilities struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
	IsShell  bool   `json:"isShell"`
}

// Current describes this build on this OS.
func Current() Capabilities {
	return Capabilities{
		Version:  version.Version,
		Platform: runtime.GOOS,
		IsShell:  true,
	}
}

// Script renders the bootstrap script. The capability object is frozen and
// defined non-writable and non-configurable, so the page reads a copy it
// cannot replace. The rest of the script is shell plumbing that is not
// reachable through the capability object: new-window interception and the
// command listener that acknowledges each forwarded command.
func Script(c Capabilities) (string, error) {
	caps, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode capabilities: %w", err)
	}
	names, err := json.Marshal(map[string]string{
		"global":   GlobalName,
		"external": EventOpenExternal,
		"command":  command.EventCommand,
		"ack":      command.EventAck,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(scriptTemplate, caps, names), nil
}

const scriptTemplate = `(function () {
  "use strict";
  var caps = Object.freeze(%s);
  var names = %s;
  Object.defineProperty(window, names.global, {
    value: caps, writable: false, configurable: false, enumerable: true
  });

  function rt() { return window.runtime; }

  function openExternal(url) {
    if (url && rt()) { rt().EventsEmit(names.external, String(url)); }
  }
  window.open = function (url) { openExternal(url); return null; };
  document.addEventListener("click", function (e) {
    var a = e.target && e.target.closest ? e.target.closest("a[target=_blank]") : null;
    if (a && a.href) { e.preventDefault(); openExternal(a.href); }
  }, true);

  function listen() {
    if (!rt()) { return false; }
    rt().EventsOn(names.command, function (env) {
      var handled = false, error = "";
      var fn = window[env.function];
      if (typeof fn === "function") {
        handled = true;
        try { fn(); } catch (err) { error = String(err); }
      }
      rt().EventsEmit(names.ack, { id: env.id, handled: handled, error: error });
    });
    return true;
  }
  if (!listen()) {
    window.addEventListener("DOMContentLoaded", listen, { once: true });
  }
})();
`
