package speech

import (
	"encoding/binary"
	"errors"
	"testing"
)

// buildWAV assembles a minimal RIFF/WAVE container around pcm.
func buildWAV(pcm []byte, sampleRate, channels int, bits uint16) []byte {
	var out []byte
	out = append(out, []byte("RIFF")...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(pcm)))
	out = append(out, []byte("WAVE")...)

	out = append(out, []byte("fmt ")...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate*channels*2))
	out = binary.LittleEndian.AppendUint16(out, uint16(channels*2))
	out = binary.LittleEndian.AppendUint16(out, bits)

	out = append(out, []byte("data")...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pcm)))
	out = append(out, pcm...)
	return out
}

func TestParseWAV(t *testing.T) {
	pcm := make([]byte, 2048)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	wav := buildWAV(pcm, 22050, 1, 16)

	got, rate, channels, err := parseWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 22050 || channels != 1 {
		t.Errorf("format = %dHz/%dch, want 22050Hz/1ch", rate, channels)
	}
	if len(got) != len(pcm) {
		t.Fatalf("pcm length = %d, want %d", len(got), len(pcm))
	}
	for i := range got {
		if got[i] != pcm[i] {
			t.Fatalf("pcm[%d] = %d, want %d", i, got[i], pcm[i])
		}
	}
}

func TestParseWAVRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"too short", []byte("RIFF")},
		{"not riff", []byte("OGGSxxxxxxxxxxxxxxxxxxxx")},
		{"no data chunk", buildWAV(nil, 22050, 1, 16)[:28]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := parseWAV(tt.data); !errors.Is(err, errMalformedWAV) {
				t.Errorf("parseWAV = %v, want errMalformedWAV", err)
			}
		})
	}
}

func TestParseWAVRejectsUnsupportedBitDepth(t *testing.T) {
	wav := buildWAV(make([]byte, 16), 22050, 1, 8)
	if _, _, _, err := parseWAV(wav); err == nil {
		t.Error("8-bit WAV accepted")
	}
}
