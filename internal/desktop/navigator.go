package desktop

import (
	"context"
	"encoding/json"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Navigator points the main window at a URL.
type Navigator interface {
	Navigate(ctx context.Context, url string)
}

// wailsNavigator replaces the page location from inside the webview.
// Wails v2 has no native navigate call.
type wailsNavigator struct{}

func (wailsNavigator) Navigate(ctx context.Context, url string) {
	quoted, _ := json.Marshal(url)
	wailsRuntime.WindowExecJS(ctx, "window.location.replace("+string(quoted)+");")
}
