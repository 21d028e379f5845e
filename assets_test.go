package storefront

import (
	"io/fs"
	"strings"
	"testing"

	storetheme "github.com/goliatone/go-storefront/pkg/theme"
)

func TestAssetsFSContainsThemeStylesheet(t *testing.T) {
	manifest := storetheme.Default()
	name := strings.TrimPrefix(manifest.Assets.Prefix, "/assets/") + "/" + manifest.Assets.Files["stylesheet"]

	data, err := fs.ReadFile(AssetsFS(), name)
	if err != nil {
		t.Fatalf("expected %s to be readable: %v", name, err)
	}
	if !strings.Contains(string(data), "--accent") {
		t.Fatalf("expected stylesheet to define the accent token")
	}
}
