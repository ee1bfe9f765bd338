package internal

import "log/slog"

// SlogSeqID returns a slog.Attr for a sequence ID or slot index, logged
// as its raw numeric form so structured log sinks can filter on it
// directly instead of going through a string conversion.
func SlogSeqID(key string, seqID uint8) slog.Attr {
	return slog.Uint64(key, uint64(seqID))
}

// SlogFlags returns a slog.Attr for a small bitfield value.
func SlogFlags(key string, flags uint8) slog.Attr {
	return slog.Uint64(key, uint64(flags))
}
