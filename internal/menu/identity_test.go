package menu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemID(t *testing.T) {
	tests := []struct {
		category string
		name     string
		want     string
	}{
		{"Main Courses", "Steak Frites", "main_courses_steak_frites"},
		{"Appetizers", "Bruschetta", "appetizers_bruschetta"},
		{"Kids' Menu", "Mac & Cheese", "kids_menu_mac_cheese"},
		{"Sandwiches / Wraps", "BLT", "sandwiches_wraps_blt"},
		{"Desserts", "Crème Brûlée", "desserts_cr_me_br_l_e"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, ItemID(tc.category, tc.name))
	}
}

func TestItemSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Steak Frites", "steak-frites"},
		{"Mac & Cheese", "mac-cheese"},
		{"  All-Nighter  ", "all-nighter"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, ItemSlug(tc.name))
	}
}

// Derivation is a pure function: repeated calls never change the result.
func TestDerivationStable(t *testing.T) {
	for i := 0; i < 3; i++ {
		require.Equal(t, "main_courses_steak_frites", ItemID("Main Courses", "Steak Frites"))
		require.Equal(t, "steak-frites", ItemSlug("Steak Frites"))
	}
}
