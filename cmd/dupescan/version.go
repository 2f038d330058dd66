package main

// versionString is replaced at release time via
//
//	go build -ldflags "-X main.versionString=v1.2.3"
var versionString = "dev"

// getVersionString returns the build version
func getVersionString() string {
	return versionString
}
