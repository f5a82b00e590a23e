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

//go:build integration

package source

import (
	"context"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/consul"

	"pathwise.dev/config/codec"
)

// ConsulSourceTestSuite runs the Consul source against a real agent.
type ConsulSourceTestSuite struct {
	suite.Suite
	consul *consul.ConsulContainer
	client *api.Client
}

func (s *ConsulSourceTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := consul.Run(ctx, "hashicorp/consul:1.15", testcontainers.WithLogger(log.TestLogger(s.T())))
	s.Require().NoError(err)
	s.consul = container

	endpoint, err := container.ApiEndpoint(ctx)
	s.Require().NoError(err)

	cfg := api.DefaultConfig()
	cfg.Address = endpoint
	s.client, err = api.NewClient(cfg)
	s.Require().NoError(err)
}

func (s *ConsulSourceTestSuite) TearDownSuite() {
	if s.consul != nil {
		s.Require().NoError(s.consul.Terminate(context.Background()))
	}
}

func TestConsulSourceTestSuite(t *testing.T) {
	suite.Run(t, new(ConsulSourceTestSuite))
}

func (s *ConsulSourceTestSuite) TestLoad_RouteTable() {
	key := "pathwise/routes.yaml"
	value := "routes:\n  - method: GET\n    path: /users/{id:int}\n"
	_, err := s.client.KV().Put(&api.KVPair{Key: key, Value: []byte(value)}, nil)
	s.Require().NoError(err)

	src, err := NewConsul(key, codec.YAMLCodec{}, s.client.KV())
	s.Require().NoError(err)

	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Len(conf["routes"], 1)
	s.NotZero(src.LastIndex())
}

func (s *ConsulSourceTestSuite) TestLoad_MissingKey() {
	src, err := NewConsul("pathwise/absent", codec.YAMLCodec{}, s.client.KV())
	s.Require().NoError(err)

	conf, err := src.Load(context.Background())
	s.Require().NoError(err)
	s.Empty(conf)
}
