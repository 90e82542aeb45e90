//go:build windows

package windows

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ShellExecute executes a file using the Windows shell
func ShellExecute(verb, file, args, cwd string, showCmd int32) error {
	var verbPtr, argsPtr, cwdPtr *uint16
	var err error

	if verb != "" {
		verbPtr, err = windows.UTF16PtrFromString(verb)
		if err != nil {
			return err
		}
	}

	filePtr, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return err
	}

	if args != "" {
		argsPtr, err = windows.UTF16PtrFromString(args)
		if err != nil {
			return err
		}
	}

	if cwd != "" {
		cwdPtr, err = windows.UTF16PtrFromString(cwd)
		if err != nil {
			return err
		}
	}

	if err := windows.ShellExecute(0, verbPtr, filePtr, argsPtr, cwdPtr, showCmd); err != nil {
		return fmt.Errorf("shell execute failed: %w", err)
	}

	return nil
}

// GetWindowText retrieves the text of a window
func GetWindowText(hwnd uintptr) string {
	buf := make([]uint16, maxTitle)

	ret, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if ret == 0 {
		return ""
	}

	return windows.UTF16ToString(buf)
}

// GetClassName retrieves the class name of a window
func GetClassName(hwnd uintptr) string {
	buf := make([]uint16, maxClassName)

	ret, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if ret == 0 {
		return ""
	}

	return windows.UTF16ToString(buf)
}

// IsWindow checks if a window handle is valid
func IsWindow(hwnd uintptr) bool {
	ret, _, _ := procIsWindow.Call(hwnd)
	return ret != 0
}

// GetWindowPid retrieves the process ID of a window
func GetWindowPid(hwnd uintptr) uint32 {
	var pid uint32

	ret, _, _ := procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if ret == 0 {
		return 0
	}

	return pid
}

// GetWindowRect returns the window's bounds in screen coordinates
func GetWindowRect(hwnd uintptr) (RECT, bool) {
	var r RECT

	ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	return r, ret != 0
}

// TerminateProcess forcefully terminates a process by its PID
func TerminateProcess(pid uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, pid)
	if err != nil {
		return fmt.Errorf("failed to open process: %w", err)
	}

	defer func() {
		_ = windows.CloseHandle(h)
	}()

	if err := windows.TerminateProcess(h, 1); err != nil {
		return fmt.Errorf("failed to terminate process: %w", err)
	}

	return nil
}
