package bytecodec

// ZstdCodec compresses residual bytes with Zstandard, favoring ratio over
// speed. Its Compress/Decompress methods live in zstd_pure.go (default,
// pure Go) or zstd_cgo.go (opt-in, cgo-backed), selected by build tag.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}
