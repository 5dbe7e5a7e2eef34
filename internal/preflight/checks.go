package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Result captures a single preflight check outcome.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable/traversable. Orchestrators run this against every root
// before planning so permission problems fail the whole run up front instead
// of mid-batch.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckPathExists verifies that path exists, whatever its type.
func CheckPathExists(name, path string) Result {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
