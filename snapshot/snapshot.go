// Package snapshot saves and restores the dynamic state of a game: sessions,
// players and the loot lying on every map. Maps themselves come from the
// game file and are never saved.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/game/geom"
	"github.com/klauspost/compress/zstd"
)

// Version is the snapshot format version written by Serialize.
const Version = 1

// ErrDeserializeFailed is returned when a snapshot cannot be read back into a game.
var ErrDeserializeFailed = errors.New("snapshot deserialize failed")

type Header struct {
	Version  int       `json:"version"`
	SavedAt  time.Time `json:"saved_at"`
	Sessions int       `json:"sessions"`
	Players  int       `json:"players"`
}

type StateV1 struct {
	Header Header

	Sessions     []SessionV1
	Players      map[string]map[int]PlayerV1 // map id -> player id
	NextPlayerID int
	Loot         []LootV1
	NextLootID   int
}

type SessionV1 struct {
	MapID string
	Dogs  []DogV1
}

type DogV1 struct {
	ID        int
	Name      string
	Position  geom.Vec2
	Speed     geom.Vec2
	Direction string
	Score     int
	Bag       []BagItemV1
	AFK       time.Duration
	PlayTime  time.Duration
	Turned    bool
}

type BagItemV1 struct {
	ID   int
	Type int
}

type PlayerV1 struct {
	DogID int
	Token string
}

type LootV1 struct {
	MapID   string
	Objects []LostObjectV1
}

type LostObjectV1 struct {
	ID       int
	Type     int
	Position geom.Vec2
}

// Capture copies the dynamic state of g.
func Capture(g *game.Game) StateV1 {
	st := StateV1{
		Players:      make(map[string]map[int]PlayerV1),
		NextPlayerID: g.Players().NextID(),
		NextLootID:   g.NextLootID(),
	}

	for _, s := range g.Sessions() {
		sess := SessionV1{MapID: s.MapID()}
		for _, d := range s.Dogs() {
			sess.Dogs = append(sess.Dogs, dogRepr(d.State()))
		}
		st.Sessions = append(st.Sessions, sess)
	}

	for _, p := range g.Players().All() {
		if st.Players[p.MapID()] == nil {
			st.Players[p.MapID()] = make(map[int]PlayerV1)
		}
		st.Players[p.MapID()][p.ID()] = PlayerV1{DogID: p.DogID(), Token: string(p.Token())}
	}

	for _, m := range g.Maps() {
		objects := g.LostObjects(m.ID())
		if len(objects) == 0 {
			continue
		}
		l := LootV1{MapID: m.ID()}
		for _, obj := range objects {
			l.Objects = append(l.Objects, LostObjectV1{ID: obj.ID, Type: obj.Type, Position: obj.Position})
		}
		st.Loot = append(st.Loot, l)
	}

	st.Header = Header{
		Version:  Version,
		SavedAt:  time.Now().UTC(),
		Sessions: len(st.Sessions),
		Players:  g.Players().Count(),
	}
	return st
}

func dogRepr(d game.DogState) DogV1 {
	r := DogV1{
		ID:        d.ID,
		Name:      d.Name,
		Position:  d.Position,
		Speed:     d.Velocity,
		Direction: d.Direction.String(),
		Score:     d.Score,
		AFK:       d.AFK,
		PlayTime:  d.PlayTime,
		Turned:    d.DirectionChanged,
	}
	for _, item := range d.Bag {
		r.Bag = append(r.Bag, BagItemV1{ID: item.ID, Type: item.Type})
	}
	return r
}

func (r DogV1) state() (game.DogState, error) {
	dir, err := game.ParseDirection(r.Direction)
	if err != nil {
		return game.DogState{}, err
	}
	d := game.DogState{
		ID:        r.ID,
		Name:      r.Name,
		Position:  r.Position,
		Velocity:  r.Speed,
		Direction: dir,
		Score:     r.Score,
		AFK:       r.AFK,
		PlayTime:  r.PlayTime,

		DirectionChanged: r.Turned,
	}
	for _, item := range r.Bag {
		d.Bag = append(d.Bag, game.BagItem{ID: item.ID, Type: item.Type})
	}
	return d, nil
}

// Apply loads st into g, which must hold the maps st refers to and no
// sessions or players yet. g is unusable when Apply fails.
func Apply(g *game.Game, st StateV1) error {
	if st.Header.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrDeserializeFailed, st.Header.Version)
	}

	for _, sess := range st.Sessions {
		s, err := g.FindOrCreateSession(sess.MapID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
		}
		m := s.Map()
		for _, dr := range sess.Dogs {
			d, err := dr.state()
			if err != nil {
				return fmt.Errorf("%w: dog %d: %w", ErrDeserializeFailed, dr.ID, err)
			}
			if len(d.Bag) > m.BagCapacity() {
				return fmt.Errorf("%w: dog %d carries more than %d items", ErrDeserializeFailed, d.ID, m.BagCapacity())
			}
			if err := g.RestoreDog(sess.MapID, d); err != nil {
				return fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
			}
		}
	}

	for _, mapID := range slices.Sorted(maps.Keys(st.Players)) {
		byID := st.Players[mapID]
		for _, id := range slices.Sorted(maps.Keys(byID)) {
			p := byID[id]
			err := g.RestorePlayer(game.PlayerState{ID: id, MapID: mapID, DogID: p.DogID, Token: game.Token(p.Token)})
			if err != nil {
				return fmt.Errorf("%w: player %d: %w", ErrDeserializeFailed, id, err)
			}
		}
	}

	for _, l := range st.Loot {
		objects := make([]game.LostObject, 0, len(l.Objects))
		for _, obj := range l.Objects {
			objects = append(objects, game.LostObject{ID: obj.ID, Type: obj.Type, Position: obj.Position})
		}
		if err := g.RestoreLostObjects(l.MapID, objects); err != nil {
			return fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
		}
	}

	g.SetNextIDs(st.NextPlayerID, st.NextLootID)
	return nil
}

// Serialize writes the state of g to w as a zstd stream holding a JSON
// header line followed by the gob encoded state.
func Serialize(w io.Writer, g *game.Game) error {
	return Write(w, Capture(g))
}

// Write encodes st to w.
func Write(w io.Writer, st StateV1) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, err := json.Marshal(st.Header)
	if err != nil {
		enc.Close()
		return fmt.Errorf("encoding header: %w", err)
	}
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&st); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Read decodes a state written by Write.
func Read(r io.Reader) (StateV1, error) {
	var st StateV1
	dec, err := zstd.NewReader(r)
	if err != nil {
		return st, fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	hb, err := br.ReadBytes('\n')
	if err != nil {
		return st, fmt.Errorf("%w: reading header: %w", ErrDeserializeFailed, err)
	}
	var h Header
	if err := json.Unmarshal(hb, &h); err != nil {
		return st, fmt.Errorf("%w: parsing header: %w", ErrDeserializeFailed, err)
	}
	if h.Version != Version {
		return st, fmt.Errorf("%w: unsupported version %d", ErrDeserializeFailed, h.Version)
	}

	if err := gob.NewDecoder(br).Decode(&st); err != nil {
		return st, fmt.Errorf("%w: gob decode: %w", ErrDeserializeFailed, err)
	}
	return st, nil
}

// Restore reads a snapshot from r into g.
func Restore(r io.Reader, g *game.Game) error {
	st, err := Read(r)
	if err != nil {
		return err
	}
	return Apply(g, st)
}
