package dpkg

const (
	// DebianBinaryMember is the first member of every .deb ar archive
	DebianBinaryMember = "debian-binary"

	// ControlMemberPrefix prefixes the compressed control tarball member
	ControlMemberPrefix = "control.tar"

	// ControlFileName is the control file inside the control tarball
	ControlFileName = "control"

	// maxControlSize bounds how much of the control file is read
	maxControlSize = 1 << 20
)
