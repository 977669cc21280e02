package audio

// Synthdef names the engine expects on the server. The .scsyndef files
// live in the configured synthdef directory and are sent over with
// /d_recv at connect time.
const (
	defaultVoiceDef = "scseq_saw"
	samplerVoiceDef = "scseq_sampler"
	drumDef         = "scseq_playbuf"
)

// voiceDefs maps a module waveform to its synthdef
var voiceDefs = map[string]string{
	"saw":      "scseq_saw",
	"sine":     "scseq_sine",
	"square":   "scseq_square",
	"triangle": "scseq_triangle",
	"noise":    "scseq_noise",
}

// VoiceDef picks the synthdef for a waveform, falling back to the saw
// voice for anything unknown
func VoiceDef(waveform string) string {
	if def, ok := voiceDefs[waveform]; ok {
		return def
	}
	return defaultVoiceDef
}

// Waveforms lists the known waveform names in menu order
func Waveforms() []string {
	return []string{"saw", "sine", "square", "triangle", "noise"}
}
