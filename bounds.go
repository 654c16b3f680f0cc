package qtff

// Capacity bounds (spec §3, §5, §9: "Upper bounds on variable arrays ...
// are compile-time constants in the design; exceeding a bound is a
// structured error, not a crash"). Every variable-length list the data
// model owns is checked against one of these before it is grown, so a
// pathological declared count fails fast with OutOfMemory instead of
// driving an oversized allocation (spec §5, Resource policy).
const (
	maxCompatibleBrands = 64
	maxTracks           = 1024
	maxMovieDataAtoms   = 4096
	maxFreeAtoms        = 4096
	maxSkipAtoms        = 4096
	maxWideAtoms        = 4096
	maxUserDataItems    = 512
	maxTableEntries     = 1 << 20
	maxColorTableEntries = 1 << 16
	maxTrackRefEntries   = 1024
	maxTrackRefTracks    = 1024
	maxDataRefEntries    = 64
	maxSampleDescEntries = 256
	maxInputMapEntries   = 256
)
