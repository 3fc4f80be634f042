package speech

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var errMalformedWAV = errors.New("malformed WAV data")

// parseWAV extracts 16-bit PCM from a RIFF/WAVE container. Returns the raw
// samples, sample rate and channel count.
func parseWAV(data []byte) (pcm []byte, sampleRate, channels int, err error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, errMalformedWAV
	}

	var haveFmt bool
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, 0, fmt.Errorf("%w: short fmt chunk", errMalformedWAV)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 { // PCM only
				return nil, 0, 0, fmt.Errorf("%w: unsupported audio format %d", errMalformedWAV, format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bits != 16 {
				return nil, 0, 0, fmt.Errorf("%w: unsupported bit depth %d", errMalformedWAV, bits)
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, 0, 0, fmt.Errorf("%w: data before fmt", errMalformedWAV)
			}
			return data[body : body+chunkSize], sampleRate, channels, nil
		}

		// Chunks are word aligned.
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	return nil, 0, 0, fmt.Errorf("%w: no data chunk", errMalformedWAV)
}
