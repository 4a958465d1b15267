package scroll

// PinScreens is how many viewport heights of scrolling the pinned region lasts
const PinScreens = 15

// PinDistance returns the scroll distance in pixels over which progress runs 0→1
func PinDistance(viewportHeight float64) float64 {
	return viewportHeight * PinScreens
}

// Pin freezes a region for Distance pixels of scrolling starting at Start,
// and reports progress through it.
type Pin struct {
	Start    float64
	Distance float64

	OnEnter  func()
	OnUpdate func(progress float64)
	OnLeave  func()

	active   bool
	progress float64
	seen     bool
}

// NewPin creates a pin that starts at scroll offset start
func NewPin(start, distance float64) *Pin {
	return &Pin{Start: start, Distance: distance}
}

// Progress returns the last computed progress
func (p *Pin) Progress() float64 {
	return p.progress
}

// Active reports whether the scroll position is inside the pinned range
func (p *Pin) Active() bool {
	return p.active
}

// Update feeds a new scroll offset and fires the hooks
func (p *Pin) Update(scrollY float64) {
	progress := 0.0
	if p.Distance > 0 {
		progress = (scrollY - p.Start) / p.Distance
	} else if scrollY >= p.Start {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	inside := scrollY >= p.Start && scrollY <= p.Start+p.Distance
	if inside && !p.active {
		p.active = true
		if p.OnEnter != nil {
			p.OnEnter()
		}
	}

	if progress != p.progress || !p.seen {
		p.progress = progress
		p.seen = true
		if p.OnUpdate != nil {
			p.OnUpdate(progress)
		}
	}

	if !inside && p.active {
		p.active = false
		if p.OnLeave != nil {
			p.OnLeave()
		}
	}
}
