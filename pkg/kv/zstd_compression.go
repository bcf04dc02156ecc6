package kv

import (
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// graphRecord on-disk form of a RoadGraph. The snap index is rebuilt on load.
type graphRecord struct {
	Key       string
	FetchedAt int64 // unix nano
	Nodes     []datastructure.RoadNode
	Edges     []datastructure.RoadEdge
}

func EncodeGraph(g *datastructure.RoadGraph) ([]byte, error) {
	rec := graphRecord{
		Key:       g.Key,
		FetchedAt: g.FetchedAt.UnixNano(),
		Nodes:     g.Nodes,
		Edges:     g.Edges,
	}
	encoded, err := binary.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return Compress(encoded)
}

func DecodeGraph(bb []byte) (*datastructure.RoadGraph, error) {
	raw, err := Decompress(bb)
	if err != nil {
		return nil, err
	}
	var rec graphRecord
	if err := binary.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return datastructure.NewRoadGraph(rec.Key, time.Unix(0, rec.FetchedAt), rec.Nodes, rec.Edges), nil
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
