package models

import "encoding/json"

type PairingSide struct {
	ID   int
	Name string
}

// Pairing proposes Player1 to meet Player2 in the next round. Player1 is
// always the higher ranked of the two. A bye pairing has no Player2.
type Pairing struct {
	Player1 PairingSide
	Player2 *PairingSide
}

func (p Pairing) IsBye() bool {
	return p.Player2 == nil
}

type pairingJSON struct {
	ID1   int     `json:"id1"`
	Name1 string  `json:"name1"`
	ID2   *int    `json:"id2,omitempty"`
	Name2 *string `json:"name2,omitempty"`
	Bye   bool    `json:"bye,omitempty"`
}

// MarshalJSON keeps the flat (id1, name1, id2, name2) shape clients expect.
func (p Pairing) MarshalJSON() ([]byte, error) {
	out := pairingJSON{ID1: p.Player1.ID, Name1: p.Player1.Name, Bye: p.IsBye()}
	if p.Player2 != nil {
		out.ID2 = &p.Player2.ID
		out.Name2 = &p.Player2.Name
	}
	return json.Marshal(out)
}

func (p *Pairing) UnmarshalJSON(data []byte) error {
	var in pairingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Player1 = PairingSide{ID: in.ID1, Name: in.Name1}
	p.Player2 = nil
	if in.ID2 != nil {
		side := PairingSide{ID: *in.ID2}
		if in.Name2 != nil {
			side.Name = *in.Name2
		}
		p.Player2 = &side
	}
	return nil
}
