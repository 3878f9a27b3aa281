//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

// createNoWindow keeps the child from opening a console window.
const createNoWindow = 0x08000000

func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNoWindow}
}
