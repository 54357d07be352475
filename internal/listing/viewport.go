package listing

// Viewport describes a scrollable list: its visible height, the height of
// the loaded content, the scroll offset and how close to the bottom a
// scroll position counts as reaching the end. All values share one unit.
type Viewport struct {
	ScrollTop     float64
	ClientHeight  float64
	ContentHeight float64
	Threshold     float64
}

// NeedsMore reports whether the content does not fill the view or the view
// is scrolled to within Threshold of the bottom.
func (v Viewport) NeedsMore() bool {
	if v.ContentHeight <= v.ClientHeight {
		return true
	}
	return v.ScrollTop+v.ClientHeight >= v.ContentHeight-v.Threshold
}
