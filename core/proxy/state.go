package proxy

import "github.com/trufnetwork/abiproxy-go/core/types"

type indexKey struct {
	table string
	index int
}

// State is the mutable configuration shared by every function of one proxy: the signer,
// the per-table scope and the per (table, index) key configuration.
// It is last-write-wins and not safe for concurrent use; two unrelated query sequences
// sharing a proxy see each other's scope and index changes.
type State struct {
	target      string
	signer      string
	scopes      map[string]string
	indexConfig map[indexKey]types.IndexConfig
}

func newState(target string) *State {
	return &State{
		target:      target,
		signer:      target,
		scopes:      make(map[string]string),
		indexConfig: make(map[indexKey]types.IndexConfig),
	}
}

func (s *State) Signer() string {
	return s.signer
}

// SetSigner changes the identity actions are attributed to. The default sentinels reset it to the target.
func (s *State) SetSigner(identity string) {
	s.signer = types.ResolveIdentity(identity, s.target)
}

// Scope returns the scope table is currently read under; the target unless changed.
func (s *State) Scope(table string) string {
	if scope, ok := s.scopes[table]; ok {
		return scope
	}
	return s.target
}

func (s *State) SetScope(table, scope string) {
	s.scopes[table] = types.ResolveIdentity(scope, s.target)
}

func (s *State) IndexConfig(table string, index int) types.IndexConfig {
	return s.indexConfig[indexKey{table, index}]
}

func (s *State) setKeyType(table string, index int, keyType string) {
	k := indexKey{table, index}
	cfg := s.indexConfig[k]
	cfg.KeyType = keyType
	s.indexConfig[k] = cfg
}

func (s *State) setEncodeType(table string, index int, encodeType string) {
	k := indexKey{table, index}
	cfg := s.indexConfig[k]
	cfg.EncodeType = encodeType
	s.indexConfig[k] = cfg
}
