package chromebrowser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ChromePathEnv names the environment variable consulted for the Chrome binary.
const ChromePathEnv = "CHROME_PATH"

// ResolveChromePath picks the Chrome executable: explicitPath, then
// $CHROME_PATH, then the first system install found. An empty result lets
// chromedp fall back to its own lookup.
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv(ChromePathEnv); envPath != "" {
		return envPath
	}
	for _, candidate := range systemCandidates(runtime.GOOS) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// systemCandidates lists install locations per OS, Chromium first.
func systemCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	case "linux":
		return []string{"chromium", "chromium-browser", "google-chrome-stable", "google-chrome"}
	case "windows":
		var candidates []string
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
			root := os.Getenv(env)
			if root == "" {
				continue
			}
			candidates = append(candidates,
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
		return candidates
	default:
		return nil
	}
}

// resolveExecutable returns nameOrPath when it is an existing absolute path,
// or its PATH lookup result for bare command names.
func resolveExecutable(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
