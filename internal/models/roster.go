package models

// Roster is the on-disk description of a legislative body: its members,
// party groupings and optional influence edges. Field names follow the
// configuration file keys.
type Roster struct {
	// IdealDimension is the declared length of every member's ideal vector.
	IdealDimension int `json:"ideal_dimension" yaml:"ideal_dimension" toml:"ideal_dimension" validate:"min=1"`

	Members []MemberSpec `json:"congress_members" yaml:"congress_members" toml:"congress_members" validate:"dive"`
	Parties []PartySpec  `json:"parties" yaml:"parties" toml:"parties" validate:"dive"`
	Edges   []EdgeSpec   `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty" validate:"dive"`
}

// MemberSpec describes one legislator.
type MemberSpec struct {
	ID    string    `json:"id" yaml:"id" toml:"id" validate:"required"`
	Ideal []float64 `json:"ideal" yaml:"ideal" toml:"ideal"`
	Bias  float64   `json:"bias" yaml:"bias" toml:"bias"`
	Swing float64   `json:"swing" yaml:"swing" toml:"swing" validate:"min=0,max=1"`
}

// PartySpec describes a party by member ids.
type PartySpec struct {
	ID         string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	Discipline float64  `json:"discipline" yaml:"discipline" toml:"discipline" validate:"min=0,max=1"`
	Members    []string `json:"members" yaml:"members" toml:"members" validate:"dive,required"`
}

// EdgeSpec describes a directed influence edge by member ids.
type EdgeSpec struct {
	From   string  `json:"from" yaml:"from" toml:"from" validate:"required"`
	To     string  `json:"to" yaml:"to" toml:"to" validate:"required"`
	Weight float64 `json:"weight" yaml:"weight" toml:"weight" validate:"min=0"`
}

// MemberIDs returns the member ids in declaration order.
func (r *Roster) MemberIDs() []string {
	ids := make([]string, len(r.Members))
	for i, m := range r.Members {
		ids[i] = m.ID
	}
	return ids
}
