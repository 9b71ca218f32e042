// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the converter.
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Columns ColumnsConfig `mapstructure:"columns"`
	Output  OutputConfig  `mapstructure:"output"`
	Convert ConvertConfig `mapstructure:"convert"`
	Storage StorageConfig `mapstructure:"storage"`
}

// InputConfig locates the raw tables. A path is either a local file or an object
// URL (s3://, gs://, azblob://).
type InputConfig struct {
	Users         string `mapstructure:"users" validate:"required"`
	TrainItems    string `mapstructure:"train_items" validate:"required"`
	TestItems     string `mapstructure:"test_items" validate:"required"`
	Purchases     string `mapstructure:"purchases" validate:"required"`
	Visits        string `mapstructure:"visits" validate:"required"`
	Probabilities string `mapstructure:"probabilities" validate:"required"`
}

// ColumnsConfig names the columns read from the raw tables.
type ColumnsConfig struct {
	UserId       string `mapstructure:"user_id" validate:"required"`
	ItemId       string `mapstructure:"item_id" validate:"required"`
	ViewItemId   string `mapstructure:"view_item_id" validate:"required"`
	PurchaseFlag string `mapstructure:"purchase_flag" validate:"required"`
	Probability  string `mapstructure:"probability" validate:"required"`
}

// OutputConfig locates the index dictionaries.
type OutputConfig struct {
	UserDict string `mapstructure:"user_dict" validate:"required"`
	ItemDict string `mapstructure:"item_dict" validate:"required"`
}

type ConvertConfig struct {
	// MissingProbability decides what happens to a negative example whose user has
	// no purchase probability.
	MissingProbability MissingPolicy `mapstructure:"missing_probability" validate:"oneof=fail skip default"`
	// DefaultProbability is used by the default policy.
	DefaultProbability float64 `mapstructure:"default_probability" validate:"gte=0,lte=1"`
	// Strict rejects examples whose user or item has no index.
	Strict bool `mapstructure:"strict"`
}

type StorageConfig struct {
	S3    S3Config        `mapstructure:"s3"`
	GCS   GCSConfig       `mapstructure:"gcs"`
	Azure AzureBlobConfig `mapstructure:"azure"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type GCSConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

type AzureBlobConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`
	Endpoint         string `mapstructure:"endpoint"`
}

// MissingPolicy is the policy for negative examples without purchase probability.
type MissingPolicy string

const (
	MissingFail    MissingPolicy = "fail"
	MissingSkip    MissingPolicy = "skip"
	MissingDefault MissingPolicy = "default"
)

func (p *MissingPolicy) UnmarshalText(text []byte) error {
	switch policy := MissingPolicy(strings.ToLower(strings.TrimSpace(string(text)))); policy {
	case MissingFail, MissingSkip, MissingDefault:
		*p = policy
		return nil
	default:
		return errors.NotValidf("missing probability policy %q", string(text))
	}
}

func GetDefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Users:         "raw_data/user_list.csv",
			TrainItems:    "raw_data/coupon_list_train.csv",
			TestItems:     "raw_data/coupon_list_test.csv",
			Purchases:     "raw_data/coupon_detail_train.csv",
			Visits:        "raw_data/coupon_visit_train.csv",
			Probabilities: "datalibfm/prob_purchase.txt",
		},
		Columns: ColumnsConfig{
			UserId:       "USER_ID_hash",
			ItemId:       "COUPON_ID_hash",
			ViewItemId:   "VIEW_COUPON_ID_hash",
			PurchaseFlag: "PURCHASE_FLG",
			Probability:  "PROB_PURCHASE",
		},
		Output: OutputConfig{
			UserDict: "datalibfm/user_dict.txt",
			ItemDict: "datalibfm/item_dict.txt",
		},
		Convert: ConvertConfig{
			MissingProbability: MissingFail,
			Strict:             true,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [input]
	v.SetDefault("input.users", defaultConfig.Input.Users)
	v.SetDefault("input.train_items", defaultConfig.Input.TrainItems)
	v.SetDefault("input.test_items", defaultConfig.Input.TestItems)
	v.SetDefault("input.purchases", defaultConfig.Input.Purchases)
	v.SetDefault("input.visits", defaultConfig.Input.Visits)
	v.SetDefault("input.probabilities", defaultConfig.Input.Probabilities)
	// [columns]
	v.SetDefault("columns.user_id", defaultConfig.Columns.UserId)
	v.SetDefault("columns.item_id", defaultConfig.Columns.ItemId)
	v.SetDefault("columns.view_item_id", defaultConfig.Columns.ViewItemId)
	v.SetDefault("columns.purchase_flag", defaultConfig.Columns.PurchaseFlag)
	v.SetDefault("columns.probability", defaultConfig.Columns.Probability)
	// [output]
	v.SetDefault("output.user_dict", defaultConfig.Output.UserDict)
	v.SetDefault("output.item_dict", defaultConfig.Output.ItemDict)
	// [convert]
	v.SetDefault("convert.missing_probability", string(defaultConfig.Convert.MissingProbability))
	v.SetDefault("convert.default_probability", defaultConfig.Convert.DefaultProbability)
	v.SetDefault("convert.strict", defaultConfig.Convert.Strict)
	// [storage]
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.use_ssl", false)
	v.SetDefault("storage.gcs.credentials_file", "")
	v.SetDefault("storage.azure.connection_string", "")
	v.SetDefault("storage.azure.account_name", "")
	v.SetDefault("storage.azure.account_key", "")
	v.SetDefault("storage.azure.endpoint", "")
}

type configBinding struct {
	key string
	env string
}

func bindEnv(v *viper.Viper) {
	bindings := []configBinding{
		{"input.users", "GORSE_INPUT_USERS"},
		{"input.train_items", "GORSE_INPUT_TRAIN_ITEMS"},
		{"input.test_items", "GORSE_INPUT_TEST_ITEMS"},
		{"input.purchases", "GORSE_INPUT_PURCHASES"},
		{"input.visits", "GORSE_INPUT_VISITS"},
		{"input.probabilities", "GORSE_INPUT_PROBABILITIES"},
		{"output.user_dict", "GORSE_OUTPUT_USER_DICT"},
		{"output.item_dict", "GORSE_OUTPUT_ITEM_DICT"},
		{"convert.missing_probability", "GORSE_MISSING_PROBABILITY"},
		{"convert.default_probability", "GORSE_DEFAULT_PROBABILITY"},
		{"convert.strict", "GORSE_STRICT"},
		{"storage.s3.endpoint", "GORSE_S3_ENDPOINT"},
		{"storage.s3.access_key_id", "GORSE_S3_ACCESS_KEY_ID"},
		{"storage.s3.secret_access_key", "GORSE_S3_SECRET_ACCESS_KEY"},
		{"storage.gcs.credentials_file", "GORSE_GCS_CREDENTIALS_FILE"},
		{"storage.azure.connection_string", "GORSE_AZURE_CONNECTION_STRING"},
		{"storage.azure.account_name", "GORSE_AZURE_ACCOUNT_NAME"},
		{"storage.azure.account_key", "GORSE_AZURE_ACCOUNT_KEY"},
	}
	for _, binding := range bindings {
		// viper.BindEnv only fails without arguments
		_ = v.BindEnv(binding.key, binding.env)
	}
}

// LoadConfig loads configuration from a toml file. An empty path loads the
// defaults. Environment variables override both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	bindEnv(v)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc())); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}
