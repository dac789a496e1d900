package suar

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hari AIDS Sedunia", "hari-aids-sedunia"},
		{"  Kesehatan Reproduksi & Seksualitas  ", "kesehatan-reproduksi-seksualitas"},
		{"Pelatihan Konselor 2024!", "pelatihan-konselor-2024"},
		{"Café Résumé", "cafe-resume"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foto Kegiatan.PNG", "foto-kegiatan"},
		{"laporan.tahunan.2024.pdf", "laporan-tahunan-2024"},
		{"???.jpg", "aset"},
	}
	for _, tt := range tests {
		if got := slugifyFilename(tt.in); got != tt.want {
			t.Errorf("slugifyFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
