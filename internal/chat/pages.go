package chat

import (
	"html/template"
	"net/http"
)

// The chat page is a minimal client for /api/chat. It also polls
// /auth/refresh every 30 minutes so an active tab keeps its session alive;
// a 401 from the poll sends the user back to the login page.
var chatTmpl = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Chatbot</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; }
#history { border: 1px solid #ccc; padding: 1rem; min-height: 18rem; white-space: pre-wrap; }
#bar { display: flex; gap: .5rem; margin-top: .5rem; }
#msg { flex: 1; }
#cost { color: #555; font-size: .85rem; }
</style>
</head>
<body>
<select id="model">
{{range .Models}}<option value="{{.ID}}"{{if eq .ID $.Default}} selected{{end}}>{{.DisplayName}}</option>{{end}}
</select>
<span id="cost"></span>
<div id="history"></div>
<div id="bar">
<input id="msg" placeholder="Say something">
<button id="send">Send</button>
<form method="post" action="/auth/logout"><button type="submit">Sign out</button></form>
</div>
<script>
const history = [];
const costs = {};
fetch('/api/models').then(r => r.json()).then(d => {
  for (const m of d.models) costs[m.id] = m.cost;
  showCost();
});
const fmt = c => c == null ? 'N/A' : '$' + c;
function showCost() {
  const c = costs[document.getElementById('model').value];
  if (!c) return;
  document.getElementById('cost').textContent =
    fmt(c.input_per_m_tokens) + ' / M in || ' + fmt(c.output_per_m_tokens) + ' / M out';
}
document.getElementById('model').addEventListener('change', showCost);
document.getElementById('send').addEventListener('click', async () => {
  const input = document.getElementById('msg');
  const text = input.value.trim();
  if (!text) return;
  input.value = '';
  history.push({role: 'user', content: text});
  render();
  const resp = await fetch('/api/chat', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({model: document.getElementById('model').value, messages: history}),
  });
  if (resp.status === 401) { window.location.href = '/auth/login'; return; }
  const data = await resp.json();
  history.push({role: 'assistant', content: data.content || '(error)'});
  render();
});
function render() {
  document.getElementById('history').textContent =
    history.map(m => m.role + ': ' + m.content).join('\n\n');
}
setInterval(async () => {
  const resp = await fetch('/auth/refresh', {method: 'POST', credentials: 'include'});
  if (resp.status === 401) window.location.href = '/auth/login';
}, 30 * 60 * 1000);
</script>
</body>
</html>
`))

func serveChatPage(w http.ResponseWriter, catalog *Catalog) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = chatTmpl.Execute(w, struct {
		Models  []Model
		Default string
	}{Models: catalog.List(), Default: catalog.DefaultID()})
}
