package config

import "os"

type Config struct {
	APIBaseURL        string
	PaystackPublicKey string
	HomeCountry       string
	BaseCurrency      string
	DisplayCurrency   string
	DisplayRate       string
	CallbackAddr      string
	StorePath         string
}

func Load() Config {
	return Config{
		APIBaseURL:        getenv("STOREFRONT_API_URL", "https://api.adaora.shop"),
		PaystackPublicKey: os.Getenv("PAYSTACK_PUBLIC_KEY"),
		HomeCountry:       getenv("STOREFRONT_HOME_COUNTRY", "NG"),
		BaseCurrency:      getenv("STOREFRONT_BASE_CURRENCY", "NGN"),
		DisplayCurrency:   os.Getenv("STOREFRONT_DISPLAY_CURRENCY"),
		DisplayRate:       getenv("STOREFRONT_DISPLAY_RATE", "0"),
		CallbackAddr:      getenv("STOREFRONT_CALLBACK_ADDR", "127.0.0.1:0"),
		StorePath:         getenv("STOREFRONT_STORE_PATH", ".storefront.json"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
