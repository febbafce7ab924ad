package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// MobileUI adapts sizes and layouts to the device
type MobileUI struct {
	app fyne.App
}

// NewMobileUI creates a new mobile UI helper
func NewMobileUI(app fyne.App) *MobileUI {
	return &MobileUI{app: app}
}

// IsMobileDevice checks if the app is running on a mobile device
func (m *MobileUI) IsMobileDevice() bool {
	return fyne.CurrentDevice().IsMobile()
}

// ArtworkSize returns the edge length of the square artwork image
func (m *MobileUI) ArtworkSize() fyne.Size {
	if m.IsMobileDevice() {
		return fyne.NewSquareSize(MobileArtworkSize)
	}
	return fyne.NewSquareSize(ArtworkSize)
}

// CreateMobileButton creates a button and the object to lay out for it,
// which on mobile wraps the button in a touch sized cell
func (m *MobileUI) CreateMobileButton(text string, onTapped func()) (*widget.Button, fyne.CanvasObject) {
	btn := widget.NewButton(text, onTapped)
	if !m.IsMobileDevice() {
		return btn, btn
	}
	return btn, container.NewGridWrap(fyne.NewSize(MinTouchTargetSize*4, MobileButtonHeight), btn)
}

// IsLandscape returns true if device is in landscape orientation
func (m *MobileUI) IsLandscape() bool {
	orientation := fyne.CurrentDevice().Orientation()
	return orientation == fyne.OrientationHorizontalLeft || orientation == fyne.OrientationHorizontalRight
}

// CreateOrientationAwareContainer places artwork beside the details in
// landscape on mobile and above them otherwise
func (m *MobileUI) CreateOrientationAwareContainer(artwork, details fyne.CanvasObject) *fyne.Container {
	if m.IsMobileDevice() && m.IsLandscape() {
		return container.NewHBox(artwork, details)
	}
	return container.NewVBox(artwork, details)
}
