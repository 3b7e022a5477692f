//go:build !windows

package credentials

// ReadFromStore leaves the credentials untouched as there is no store
// supported on this platform.
func (this *Credentials) ReadFromStore() (supported bool, err error) {
	return false, nil
}

func (this *Credentials) WriteToStore() (supported bool, err error) {
	return false, nil
}
