package authapi

import (
	"html/template"
	"net/http"
)

// The login page is intentionally minimal: a plain form posting to
// /auth/login. Styling and layout are not this subsystem's concern.
var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sign in</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; justify-content: center; margin-top: 10vh; }
form { display: flex; flex-direction: column; gap: .5rem; width: 18rem; }
.err { color: #b00020; }
</style>
</head>
<body>
<form method="post" action="/auth/login">
<h1>Sign in</h1>
{{if .Error}}<p class="err">{{.Error}}</p>{{end}}
<input name="username" placeholder="Username" autocomplete="username" required>
<input name="password" type="password" placeholder="Password" autocomplete="current-password" required>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`))

func serveLoginPage(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = loginTmpl.Execute(w, struct{ Error string }{Error: errMsg})
}
