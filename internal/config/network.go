package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// SelectNetwork returns the network named name. Unknown names fail with a
// *domain.ConfigError that suggests the closest configured names.
func SelectNetwork(networks map[string]*domain.Network, name string) (*domain.Network, error) {
	name = strings.TrimSpace(name)
	if network, ok := networks[name]; ok {
		return network, nil
	}

	// Case-insensitive name lookup
	for key, network := range networks {
		if strings.EqualFold(key, name) {
			return network, nil
		}
	}

	err := fmt.Errorf("%w: %q", domain.ErrUnknownNetwork, name)
	if suggestions := SuggestNetworks(networks, name); len(suggestions) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
	}
	return nil, &domain.ConfigError{Key: "networks." + name, Err: err}
}

// SuggestNetworks returns configured network names fuzzily matching input, best first
func SuggestNetworks(networks map[string]*domain.Network, input string) []string {
	if input == "" {
		return nil
	}
	names := NetworkNames(networks)
	matches := fuzzy.Find(strings.ToLower(input), names)
	return lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
}

// NetworkNames returns the configured network names sorted alphabetically
func NetworkNames(networks map[string]*domain.Network) []string {
	names := lo.Keys(networks)
	sort.Strings(names)
	return names
}
