package config

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Recognized configuration file names, in discovery order.
const (
	// FileNameYAML is the conventional configuration file name.
	FileNameYAML = "buildconf.yaml"
	// FileNameLua is the executable configuration form; the script receives
	// the build phase and the reference defaults.
	FileNameLua = "buildconf.lua"
)

var recognizedNames = []string{FileNameYAML, FileNameLua}

// unsupportedVariants are probed when discovery finds nothing, so a user who
// wrote the configuration under an unsupported extension gets a pointed
// migration error instead of silently running on the defaults.
var unsupportedVariants = []string{"buildconf.yml", "buildconf.json", "buildconf.toml"}

// Locator finds the nearest recognized configuration file at or above a
// starting directory. An empty path with a nil error means none was found.
type Locator interface {
	Locate(dir string) (string, error)
}

// fileLocator walks upward from the starting directory. Inside a Git
// worktree the walk stops at the worktree root: a repository does not
// inherit configuration from outside itself. Outside a repository the walk
// stops at the filesystem root.
type fileLocator struct{}

// NewLocator returns the default upward-searching file locator.
func NewLocator() Locator {
	return fileLocator{}
}

func (fileLocator) Locate(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	root := searchRoot(abs)

	for cur := abs; ; cur = filepath.Dir(cur) {
		for _, name := range recognizedNames {
			candidate := filepath.Join(cur, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		if cur == root || filepath.Dir(cur) == cur {
			break
		}
	}
	return "", nil
}

func searchRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return string(filepath.Separator)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return string(filepath.Separator)
	}
	return wt.Filesystem.Root()
}

// probeUnsupportedVariants checks the starting directory for configuration
// files written under an unsupported extension. Returns the first match.
func probeUnsupportedVariants(dir string) string {
	for _, name := range unsupportedVariants {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
