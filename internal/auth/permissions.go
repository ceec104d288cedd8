package auth

// Resources protected by the permission engine. Every resource supports the four
// actions create, read, update and delete.
const (
	// ResourceAbsensi covers attendance check-ins.
	ResourceAbsensi = "absensi"
	// ResourceIzin covers leave requests (pengajuan).
	ResourceIzin = "izin"
	// ResourcePegawai covers staff master data.
	ResourcePegawai = "pegawai"
	// ResourceLokasi covers check-in locations and their geofences.
	ResourceLokasi = "lokasi"
	// ResourcePengguna covers user accounts, roles and permission administration.
	ResourcePengguna = "pengguna"
	// ResourceShift covers working shifts.
	ResourceShift = "shift"
	// ResourceResetWajah covers face data reset requests.
	ResourceResetWajah = "reset_wajah"
)

// Resources lists every protected resource in seeding order.
var Resources = []string{ //nolint:gochecknoglobals
	ResourceAbsensi,
	ResourceIzin,
	ResourcePegawai,
	ResourceLokasi,
	ResourcePengguna,
	ResourceShift,
	ResourceResetWajah,
}

// ResourceLabels are human-readable names used in permission descriptions.
var ResourceLabels = map[string]string{ //nolint:gochecknoglobals
	ResourceAbsensi:    "attendance",
	ResourceIzin:       "leave requests",
	ResourcePegawai:    "staff data",
	ResourceLokasi:     "locations",
	ResourcePengguna:   "users and permissions",
	ResourceShift:      "shifts",
	ResourceResetWajah: "face reset requests",
}
