// Copyright 2025 Blink Labs Software
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

package metadata

import (
	"fmt"

	"github.com/blinklabs-io/lottery/database/models"
	"github.com/blinklabs-io/lottery/database/plugin"
	"github.com/blinklabs-io/lottery/database/types"
	"gorm.io/gorm"

	// Register plugins
	_ "github.com/blinklabs-io/lottery/database/plugin/metadata/sqlite"
)

type MetadataStore interface {
	plugin.Plugin

	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Accounts
	SetAccount(*models.Account, types.Txn) error
	GetAccount([]byte, types.Txn) (*models.Account, error)
	GetAccountsByOwner([]byte, types.Txn) ([]models.Account, error)

	// Lotteries
	SetLottery(*models.Lottery, types.Txn) error
	GetLottery([]byte, types.Txn) (*models.Lottery, error)
	GetLotteries(types.Txn) ([]models.Lottery, error)

	// Tickets
	SetTicket(*models.Ticket, types.Txn) error
	GetTicket([]byte, types.Txn) (*models.Ticket, error)
	GetTicketsByLottery([]byte, types.Txn) ([]models.Ticket, error)
	GetTicketsByOwner([]byte, types.Txn) ([]models.Ticket, error)
}

// New returns the started metadata plugin selected by name
func New(pluginName string, opts plugin.StartOptions) (MetadataStore, error) {
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName, opts)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
