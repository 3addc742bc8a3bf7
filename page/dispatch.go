/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package page

import (
	"encoding/base64"
	"strings"

	"github.com/bjornaugestad/highlander-go/httpproto"
)

// Dispatch resolves req's path against the registry and serves it:
// static hits are copied from the file cache, dynamic hits go through
// the auth gate and then the handler, and a miss produces 404. The
// returned status is always the one actually sent.
func (r *Registry) Dispatch(req *httpproto.Request, resp *httpproto.Response) int {
	d, cacheID, found := r.lookup(req.Path)
	if !found {
		return finish(resp, 404)
	}

	if d.Kind == Static {
		return r.serveStatic(resp, cacheID)
	}

	if d.Attrs.AuthRequired {
		user, pass, ok := basicAuth(req)
		if !ok || (d.Attrs.CheckCreds != nil && !d.Attrs.CheckCreds(user, pass)) {
			_ = resp.SetHeader("WWW-Authenticate", `Basic realm="`+realmOrDefault(d.Attrs.AuthRealm)+`"`)
			return finish(resp, 401)
		}
	}

	status := d.Handler(req, resp)
	if status == 0 {
		status = 200
	}
	return finish(resp, status)
}

func realmOrDefault(realm string) string {
	if realm == "" {
		return "restricted"
	}
	return realm
}

func (r *Registry) serveStatic(resp *httpproto.Response, id uint64) int {
	entry, ok := r.cache.GetEntry(id)
	if !ok {
		return finish(resp, 404)
	}
	if entry.MimeType != "" {
		_ = resp.SetHeader("Content-Type", entry.MimeType)
	}
	_ = resp.Add(entry.Bytes)
	return finish(resp, 200)
}

// finish applies the dispatcher's "generate a minimal body if the
// handler didn't" rule: any non-2xx status with an empty body gets a
// status-appropriate HTML page.
func finish(resp *httpproto.Response, status int) int {
	_ = resp.SetStatus(status)
	if (status < 200 || status >= 300) && resp.Len() == 0 {
		_ = resp.Add(httpproto.MinimalBody(status))
	}
	return status
}

func basicAuth(req *httpproto.Request) (user, pass string, ok bool) {
	if req.Header == nil {
		return "", "", false
	}
	h, found := req.Header.Get("Authorization")
	if !found || !strings.HasPrefix(h, "Basic ") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(h, "Basic "))
	if err != nil {
		return "", "", false
	}
	u, p, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return u, p, true
}
