package redis

const (
	// KeyPrefixSecret is the prefix for stored credentials
	KeyPrefixSecret = "clawarr:secret:"
	// KeyAllSecrets is the key for the set of all stored secret names
	KeyAllSecrets = "clawarr:secrets:all"
	// KeyLastDiscovery holds the results of the latest discovery run
	KeyLastDiscovery = "clawarr:discovery:last"
)

// SecretKey returns the Redis key for a secret name such as
// "clawarr.radarr.apiKey".
func SecretKey(name string) string {
	return KeyPrefixSecret + name
}

// AllSecretsKey returns the key for the set of all secret names
func AllSecretsKey() string {
	return KeyAllSecrets
}

// LastDiscoveryKey returns the key of the discovery snapshot
func LastDiscoveryKey() string {
	return KeyLastDiscovery
}
