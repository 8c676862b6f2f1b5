// Package emotion maps detected emotion labels to their display metadata.
package emotion

// Label is an emotion name as reported by the detection backend.
type Label string

const (
	Neutral  Label = "neutral"
	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Fear     Label = "fear"
	Surprise Label = "surprise"
	Disgust  Label = "disgust"
	Calm     Label = "calm"
	Active   Label = "active"
)

// Animation names the single motion effect shown next to the emotion.
// Exactly one is active at a time.
type Animation string

const (
	AnimPulse  Animation = "pulse"
	AnimBounce Animation = "bounce"
	AnimShake  Animation = "shake"
	AnimFade   Animation = "fade"
	AnimWobble Animation = "wobble"
	AnimFlash  Animation = "flash"
	AnimSpin   Animation = "spin"
	AnimBreath Animation = "breathe"
)

// Animations lists every animation in a stable order.
var Animations = []Animation{
	AnimPulse, AnimBounce, AnimShake, AnimFade,
	AnimWobble, AnimFlash, AnimSpin, AnimBreath,
}

// Preset is the display metadata for one emotion.
type Preset struct {
	Icon      string
	Color     string // hex, lipgloss compatible
	Animation Animation
}

var presets = map[Label]Preset{
	Happy:    {Icon: "😊", Color: "#fde68a", Animation: AnimBounce},
	Sad:      {Icon: "😢", Color: "#93c5fd", Animation: AnimFade},
	Angry:    {Icon: "😠", Color: "#fca5a5", Animation: AnimShake},
	Neutral:  {Icon: "😐", Color: "#d4d4d8", Animation: AnimPulse},
	Fear:     {Icon: "😨", Color: "#c4b5fd", Animation: AnimWobble},
	Surprise: {Icon: "😲", Color: "#fdba74", Animation: AnimFlash},
	Disgust:  {Icon: "😑", Color: "#86efac", Animation: AnimWobble},
	Calm:     {Icon: "😌", Color: "#a5f3fc", Animation: AnimBreath},
	Active:   {Icon: "⚡", Color: "#f9a8d4", Animation: AnimSpin},
}

// Lookup returns the preset for label and whether it was known. Keys match
// exactly; anything else, including other casings, gets the neutral preset.
func Lookup(label Label) (Preset, bool) {
	p, ok := presets[label]
	if !ok {
		return presets[Neutral], false
	}
	return p, true
}

// PresetFor is Lookup without the known flag.
func PresetFor(label Label) Preset {
	p, _ := Lookup(label)
	return p
}

// Known reports every label with its own preset.
func Known() []Label {
	return []Label{Happy, Sad, Angry, Neutral, Fear, Surprise, Disgust, Calm, Active}
}
