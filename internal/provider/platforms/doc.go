// Package platforms contains the capability tables of the supported target
// platforms. Each platform is a provider.Module; All lists the modules
// compiled into the binary.
package platforms
