package media

import "sync"

// Demo shortcut constants. The demo upload is a zero-content placeholder
// fabricated without real file selection.
const (
	DemoName = "demo_fish_feeding.mp4"
	DemoKind = KindMP4
)

// Intake owns acquisition of a single media file. It holds at most one
// Upload at a time; each successful selection replaces the previous one and
// notifies exactly once. The advertised size ceiling is advisory at this
// layer; callers enforce it at the transport boundary.
type Intake struct {
	mu           sync.Mutex
	held         *Upload
	maxSizeBytes int64
	notify       func(Upload)
}

// NewIntake constructs an Intake advertising the given size ceiling. The
// notify callback, if non-nil, observes every accepted selection.
func NewIntake(maxSizeBytes int64, notify func(Upload)) *Intake {
	return &Intake{
		maxSizeBytes: maxSizeBytes,
		notify:       notify,
	}
}

// SelectFile accepts a candidate file by name and size. Files outside the
// accepted format set fail with ErrInvalidFormat and leave the held media
// untouched; accepted files replace it wholesale.
func (i *Intake) SelectFile(name string, sizeBytes int64) (Upload, error) {
	kind, err := KindFromFilename(name)
	if err != nil {
		return Upload{}, err
	}
	if sizeBytes < 0 {
		sizeBytes = 0
	}

	up := Upload{Name: name, SizeBytes: sizeBytes, Kind: kind}
	i.accept(up)
	return up, nil
}

// SelectDemoFile fabricates the fixed zero-content placeholder, bypassing
// format validation. It always succeeds.
func (i *Intake) SelectDemoFile() Upload {
	up := Upload{Name: DemoName, SizeBytes: 0, Kind: DemoKind}
	i.accept(up)
	return up
}

func (i *Intake) accept(up Upload) {
	i.mu.Lock()
	i.held = &up
	notify := i.notify
	i.mu.Unlock()

	if notify != nil {
		notify(up)
	}
}

// Held returns the currently held upload, if any.
func (i *Intake) Held() (Upload, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.held == nil {
		return Upload{}, false
	}
	return *i.held, true
}

// MaxSizeBytes is the advertised upload ceiling.
func (i *Intake) MaxSizeBytes() int64 {
	return i.maxSizeBytes
}
