package config

import (
	"encoding/json"
	"os"

	"github.com/marinesurvey/inspector/internal/flagx"
	"github.com/marinesurvey/inspector/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Durations
// use timex.Duration so both "8s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	DBConnectTimeout      timex.Duration `json:"db_connect_timeout"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
	Env                   string         `json:"env"`
	Listen                *bool          `json:"listen"`
	StorageBackend        string         `json:"storage_backend"`
	UploadDir             string         `json:"upload_dir"`
	ImageMaxDimension     *int           `json:"image_max_dimension"`
	S3AccessKey           string         `json:"s3_access_key"`
	S3SecretKey           string         `json:"s3_secret_key"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	SMTPHost              string         `json:"smtp_host"`
	SMTPPort              string         `json:"smtp_port"`
	SMTPUser              string         `json:"smtp_user"`
	SMTPPass              string         `json:"smtp_pass"`
	QuotationRecipient    string         `json:"quotation_recipient"`
	RedisAddr             string         `json:"redis_addr"`
	RedisPassword         string         `json:"redis_password"`
	LoginRateLimit        int            `json:"login_rate_limit"`
	LoginRateWindow       timex.Duration `json:"login_rate_window"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Only keys present with a non-zero value replace the current
// setting. A missing flag means no file is read; an unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Env, c.Env)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPass, c.SMTPPass)
	setString(&config.QuotationRecipient, c.QuotationRecipient)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)

	if c.DBConnectTimeout.Duration > 0 {
		config.DBConnectTimeout = c.DBConnectTimeout.Duration
	}
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.LoginRateWindow.Duration > 0 {
		config.LoginRateWindow = c.LoginRateWindow.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.LoginRateLimit > 0 {
		config.LoginRateLimit = c.LoginRateLimit
	}
	if c.Listen != nil {
		config.Listen = *c.Listen
	}
	if c.ImageMaxDimension != nil {
		config.ImageMaxDimension = *c.ImageMaxDimension
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
