//go:build windows
// +build windows

package platform

import (
	"fmt"
	"syscall"
	"unsafe"

	"screenbot/internal/cv"
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	gdi32                        = syscall.NewLazyDLL("gdi32.dll")
	procGetDC                    = user32.NewProc("GetDC")
	procReleaseDC                = user32.NewProc("ReleaseDC")
	procGetClientRect            = user32.NewProc("GetClientRect")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procCreateCompatibleDC       = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap   = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject             = gdi32.NewProc("SelectObject")
	procBitBlt                   = gdi32.NewProc("BitBlt")
	procDeleteDC                 = gdi32.NewProc("DeleteDC")
	procDeleteObject             = gdi32.NewProc("DeleteObject")
	procGetDIBits                = gdi32.NewProc("GetDIBits")
)

const (
	srcCopy      = 0x00CC0020
	biRGB        = 0
	dibRGBColors = 0
)

type winRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	BmiHeader bitmapInfoHeader
	BmiColors [1]uint32
}

// CaptureRaw grabs the client area of the window owned by windowID directly
// through GDI, avoiding the full-screen copy the portable path does. Falls
// through to a capture error when the process has no visible window.
func (d *Desktop) CaptureRaw(windowID int64) (*cv.RawFrame, error) {
	hwnd := findWindowByPid(uint32(windowID))
	if hwnd == 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("no visible window for process %d", windowID)}
	}

	var rect winRect
	ret, _, err := procGetClientRect.Call(hwnd, uintptr(unsafe.Pointer(&rect)))
	if ret == 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("failed to get client rect: %v", err)}
	}

	width := int(rect.Right - rect.Left)
	height := int(rect.Bottom - rect.Top)
	if width <= 0 || height <= 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("invalid window dimensions %dx%d", width, height)}
	}

	hdcWindow, _, err := procGetDC.Call(hwnd)
	if hdcWindow == 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("failed to get window DC: %v", err)}
	}
	defer procReleaseDC.Call(hwnd, hdcWindow)

	hdcMem, _, err := procCreateCompatibleDC.Call(hdcWindow)
	if hdcMem == 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("failed to create compatible DC: %v", err)}
	}
	defer procDeleteDC.Call(hdcMem)

	hBitmap, _, err := procCreateCompatibleBitmap.Call(hdcWindow, uintptr(width), uintptr(height))
	if hBitmap == 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("failed to create compatible bitmap: %v", err)}
	}
	defer procDeleteObject.Call(hBitmap)

	procSelectObject.Call(hdcMem, hBitmap)

	ret, _, err = procBitBlt.Call(hdcMem, 0, 0, uintptr(width), uintptr(height), hdcWindow, 0, 0, srcCopy)
	if ret == 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("BitBlt failed: %v", err)}
	}

	var bi bitmapInfo
	bi.BmiHeader.Size = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.Width = int32(width)
	bi.BmiHeader.Height = -int32(height) // top-down
	bi.BmiHeader.Planes = 1
	bi.BmiHeader.BitCount = 32
	bi.BmiHeader.Compression = biRGB

	buffer := make([]byte, width*height*cv.BytesPerPixel)

	ret, _, err = procGetDIBits.Call(
		hdcMem,
		hBitmap,
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
	)
	if ret == 0 {
		return nil, &cv.CaptureError{Reason: fmt.Sprintf("GetDIBits failed: %v", err)}
	}

	// Windows delivers BGRA; swap to RGBA in place.
	for i := 0; i < len(buffer); i += 4 {
		buffer[i], buffer[i+2] = buffer[i+2], buffer[i]
	}

	return &cv.RawFrame{
		Width:  width,
		Height: height,
		Stride: width * cv.BytesPerPixel,
		Pix:    buffer,
	}, nil
}

type enumWindowsQuery struct {
	pid  uint32
	hwnd uintptr
}

// The runtime never releases syscall callbacks and caps how many a process
// may create, so the EnumWindows callback is created exactly once and the
// per-call state travels through the lParam pointer.
var enumWindowsCallback = syscall.NewCallback(func(hwnd, lparam uintptr) uintptr {
	q := (*enumWindowsQuery)(unsafe.Pointer(lparam))

	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible == 0 {
		return 1 // continue
	}

	var owner uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&owner)))
	if owner == q.pid {
		q.hwnd = hwnd
		return 0 // stop
	}
	return 1
})

func findWindowByPid(pid uint32) uintptr {
	q := enumWindowsQuery{pid: pid}
	procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(&q)))
	return q.hwnd
}
