// Copyright 2025 The Pathwise Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/consul/api"

	"pathwise.dev/config/codec"
)

// ConsulKV is the subset of the Consul KV API used by [Consul].
// [*api.KV] implements it.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul loads a document stored under one key of Consul's KV store.
//
// Without an explicit KV the client is configured from the environment:
//   - CONSUL_HTTP_ADDR: address of the Consul agent
//   - CONSUL_HTTP_TOKEN: ACL token (optional)
type Consul struct {
	kv        ConsulKV
	path      string
	decoder   codec.Decoder
	lastIndex atomic.Uint64
}

// NewConsul creates a Consul source. If kv is nil, a client is built with
// [api.DefaultConfig].
func NewConsul(path string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}
	return &Consul{kv: kv, path: path, decoder: decoder}, nil
}

// Load fetches and decodes the key. A missing key loads as an empty
// document.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	pair, meta, err := c.kv.Get(c.path, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key %s: %w", c.path, err)
	}
	if meta != nil {
		c.lastIndex.Store(meta.LastIndex)
	}
	if pair == nil {
		return make(map[string]any), nil
	}
	return decode(c.decoder, pair.Value, "consul value")
}

// LastIndex returns the Consul index observed by the last Load.
func (c *Consul) LastIndex() uint64 {
	return c.lastIndex.Load()
}

func (c *Consul) String() string {
	return "consul:" + c.path
}
