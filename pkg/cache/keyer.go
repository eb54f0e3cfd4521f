package cache

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies a layout of the gesture with the given content
	// hash under opts.
	LayoutKey(gestureHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of the gesture with the
	// given content hash under opts.
	ArtifactKey(gestureHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	FrameWidth     float64 `json:"frame_width"`
	FrameHeight    float64 `json:"frame_height"`
	LabelRadius    float64 `json:"label_radius"`
	DwellThreshold int     `json:"dwell_threshold"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Layout   LayoutKeyOpts `json:"layout"`
	Format   string        `json:"format"`
	Style    string        `json:"style,omitempty"`
	Scale    float64       `json:"scale,omitempty"`
	Title    string        `json:"title,omitempty"`
	NoFrame  bool          `json:"no_frame,omitempty"`
	Detailed bool          `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the key inputs under a per-stage prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(gestureHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", gestureHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(gestureHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, gestureHash, opts)
}
