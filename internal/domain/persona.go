package domain

type Niche struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type ContentStyle struct {
	Form string `json:"form"`
	Tone string `json:"tone"`
	Vibe string `json:"vibe"`
}

type Audience struct {
	Type  string `json:"type"`
	Level string `json:"level"`
}

type Consistency struct {
	Pattern   string `json:"pattern"`
	Frequency string `json:"frequency"`
}

type EngagementProfile struct {
	Behavior string `json:"behavior"`
	Rate     string `json:"rate"`
}

type SWOT struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Persona is the strategic summary produced by the persona generator.
type Persona struct {
	Niche        Niche             `json:"niche"`
	ContentStyle ContentStyle      `json:"contentStyle"`
	Archetype    string            `json:"archetype"`
	Topics       []string          `json:"topics"`
	Audience     Audience          `json:"audience"`
	Consistency  Consistency       `json:"consistency"`
	Engagement   EngagementProfile `json:"engagement"`
	SWOT         SWOT              `json:"swot"`
	Summary      string            `json:"summary"`
}

const (
	personaUnknown         = "Unknown"
	FallbackPersonaSummary = "Could not generate persona."
)

// FallbackPersona is returned whenever persona generation was attempted and failed.
func FallbackPersona() *Persona {
	return &Persona{
		Niche:        Niche{Primary: personaUnknown, Secondary: personaUnknown},
		ContentStyle: ContentStyle{Form: personaUnknown, Tone: personaUnknown, Vibe: personaUnknown},
		Archetype:    personaUnknown,
		Topics:       []string{},
		Audience:     Audience{Type: "General", Level: "All"},
		Consistency:  Consistency{Pattern: personaUnknown, Frequency: personaUnknown},
		Engagement:   EngagementProfile{Behavior: personaUnknown, Rate: personaUnknown},
		SWOT:         SWOT{Strengths: []string{}, Weaknesses: []string{}},
		Summary:      FallbackPersonaSummary,
	}
}

// IsFallback reports whether p carries the fallback summary.
func (p *Persona) IsFallback() bool {
	return p != nil && p.Summary == FallbackPersonaSummary
}

// Normalize replaces nil collections with empty ones so consumers can iterate unconditionally.
func (p *Persona) Normalize() *Persona {
	if p == nil {
		return nil
	}
	if p.Topics == nil {
		p.Topics = []string{}
	}
	if p.SWOT.Strengths == nil {
		p.SWOT.Strengths = []string{}
	}
	if p.SWOT.Weaknesses == nil {
		p.SWOT.Weaknesses = []string{}
	}
	return p
}
