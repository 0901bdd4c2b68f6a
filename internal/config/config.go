// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	RPCList              []string `mapstructure:"rpc_list"`
	ListenAddr           string   `mapstructure:"listen_addr"`
	PriceEndpoint        string   `mapstructure:"price_endpoint"`
	QuoteEndpoint        string   `mapstructure:"quote_endpoint"`
	SwapEndpoint         string   `mapstructure:"swap_endpoint"`
	StablecoinMint       string   `mapstructure:"stablecoin_mint"`
	TokenProgramID       string   `mapstructure:"token_program_id"`
	DustThreshold        float64  `mapstructure:"dust_threshold"`
	ThresholdInclusive   bool     `mapstructure:"threshold_inclusive"`
	ViewActionEnabled    bool     `mapstructure:"view_action_enabled"`
	ForwardActionHeaders bool     `mapstructure:"forward_action_headers"`
	SlippageBps          int      `mapstructure:"slippage_bps"`
	MaxRetries           int      `mapstructure:"max_retries"`
	RetryBaseDelayMs     int      `mapstructure:"retry_base_delay_ms"`
	ActionVersion        string   `mapstructure:"action_version"`
	BlockchainIDs        string   `mapstructure:"blockchain_ids"`
	IconURL              string   `mapstructure:"icon_url"`
	Title                string   `mapstructure:"title"`
	Description          string   `mapstructure:"description"`
	Label                string   `mapstructure:"label"`
	DebugLogging         bool     `mapstructure:"debug_logging"`
	LogFile              string   `mapstructure:"log_file"`
}

const (
	DefaultListenAddr       = ":8080"
	DefaultPriceEndpoint    = "https://price.jup.ag/v4/price"
	DefaultQuoteEndpoint    = "https://quote-api.jup.ag/v4/quote"
	DefaultSwapEndpoint     = "https://quote-api.jup.ag/v4/swap"
	DefaultStablecoinMint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	DefaultDustThreshold    = 5.0
	DefaultSlippageBps      = 50
	DefaultMaxRetries       = 5
	DefaultRetryBaseDelayMs = 1000
	DefaultActionVersion    = "2.1.3"
	DefaultBlockchainIDs    = "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"
	DefaultIconURL          = "https://raw.githubusercontent.com/your-repo/dust-sweeper-icon.png"
	DefaultTitle            = "Dust Token Sweeper"
	DefaultDescription      = "Swap tokens worth ≤ $5 to USDC using Jupiter"
	DefaultLabel            = "Sweep Dust"
	DefaultLogFile          = "sweeper.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"listen_addr":         DefaultListenAddr,
		"price_endpoint":      DefaultPriceEndpoint,
		"quote_endpoint":      DefaultQuoteEndpoint,
		"swap_endpoint":       DefaultSwapEndpoint,
		"stablecoin_mint":     DefaultStablecoinMint,
		"token_program_id":    solana.TokenProgramID.String(),
		"dust_threshold":      DefaultDustThreshold,
		"threshold_inclusive": true,
		"view_action_enabled": true,
		"slippage_bps":        DefaultSlippageBps,
		"max_retries":         DefaultMaxRetries,
		"retry_base_delay_ms": DefaultRetryBaseDelayMs,
		"action_version":      DefaultActionVersion,
		"blockchain_ids":      DefaultBlockchainIDs,
		"icon_url":            DefaultIconURL,
		"title":               DefaultTitle,
		"description":         DefaultDescription,
		"label":               DefaultLabel,
		"log_file":            DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURL(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	for _, endpoint := range []string{cfg.PriceEndpoint, cfg.QuoteEndpoint, cfg.SwapEndpoint} {
		if err := validateURL(endpoint, "http"); err != nil {
			return errors.New("invalid aggregator endpoint URL")
		}
	}
	if _, err := solana.PublicKeyFromBase58(cfg.StablecoinMint); err != nil {
		return errors.New("invalid stablecoin mint address")
	}
	if _, err := solana.PublicKeyFromBase58(cfg.TokenProgramID); err != nil {
		return errors.New("invalid token program id")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.DustThreshold <= 0 {
		return errors.New("invalid dust_threshold")
	}
	if cfg.SlippageBps <= 0 {
		return errors.New("invalid slippage_bps")
	}
	if cfg.MaxRetries < 1 {
		return errors.New("invalid max_retries")
	}
	if cfg.RetryBaseDelayMs <= 0 {
		return errors.New("invalid retry_base_delay_ms")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("SWEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	envListen := v.GetString("LISTEN_ADDR")
	if envListen != "" {
		cfg.ListenAddr = envListen
	}
	return nil
}
