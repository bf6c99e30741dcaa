//go:build js && wasm
// +build js,wasm

package canvas

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"syscall/js"
	"time"

	particle "github.com/esimov/ascii-seasons/particle-system"
)

// Query returns the value of a query parameter of the page url.
func Query(key string) string {
	u, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}

// FetchProfile loads a yaml profile relative to the page through the
// Javascript `location.href`. The request bypasses the browser cache.
func FetchProfile(path string) (particle.Profile, error) {
	u, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return particle.Profile{}, err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return particle.Profile{}, err
	}
	u = u.ResolveReference(ref)
	u.RawQuery = fmt.Sprint(time.Now().UnixNano())

	resp, err := http.Get(u.String())
	if err != nil {
		return particle.Profile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return particle.Profile{}, fmt.Errorf("loading profile %s: %s", u, resp.Status)
	}
	source, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return particle.Profile{}, err
	}
	return particle.ParseProfile(source)
}
