package server

import (
	"html/template"
	"log"
	"net/http"
)

// handleShell serves the editor page. Everything the browser needs is
// embedded in the binary. The shell stays thin: all rendering
// decisions live on the Go side of the websocket.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		DefaultTheme string
	}{
		DefaultTheme: s.cfg.Theme,
	}
	if err := shellTemplate.Execute(w, data); err != nil {
		log.Printf("server: rendering shell: %v", err)
	}
}

var shellTemplate = template.Must(template.New("shell").Parse(shellHTML))

const shellHTML = `<!DOCTYPE html>
<html lang="en" data-theme="{{.DefaultTheme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>marklive</title>
<style>
:root { --bg: #ffffff; --fg: #1f2328; --border: #d0d7de; --accent: #0969da; --error: #cf222e; }
[data-theme="dark"] { --bg: #0d1117; --fg: #e6edf3; --border: #30363d; --accent: #4493f8; --error: #ff7b72; }
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; background: var(--bg); color: var(--fg); height: 100vh; display: flex; flex-direction: column; }
header { display: flex; align-items: center; gap: 8px; padding: 8px 16px; border-bottom: 1px solid var(--border); }
header h1 { font-size: 16px; margin: 0; flex: 1; }
button { background: none; border: 1px solid var(--border); color: var(--fg); border-radius: 6px; padding: 4px 12px; cursor: pointer; font-size: 13px; }
button:hover { border-color: var(--accent); }
main { flex: 1; display: flex; min-height: 0; }
#editor { width: 50%; border: none; border-right: 1px solid var(--border); resize: none; padding: 16px; font: 14px/1.5 ui-monospace, SFMono-Regular, Menlo, monospace; background: var(--bg); color: var(--fg); outline: none; }
#preview { width: 50%; overflow: auto; padding: 16px 24px; }
#preview pre { background: rgba(128,128,128,.12); padding: 12px; border-radius: 6px; overflow-x: auto; }
#preview table { border-collapse: collapse; }
#preview td, #preview th { border: 1px solid var(--border); padding: 4px 10px; }
.preview-empty { color: #888; font-style: italic; }
.diagram { position: relative; margin: 12px 0; }
.diagram-pending { opacity: .5; }
.diagram-error pre { color: var(--error); }
.diagram-copy { position: absolute; top: 4px; right: 4px; opacity: 0; transition: opacity .15s; }
.diagram:hover .diagram-copy { opacity: 1; }
#toast { position: fixed; bottom: 20px; left: 50%; transform: translateX(-50%); background: var(--fg); color: var(--bg); padding: 8px 16px; border-radius: 6px; opacity: 0; transition: opacity .2s; pointer-events: none; }
#toast.show { opacity: 1; }
</style>
</head>
<body>
<header>
  <h1>marklive</h1>
  <button id="share-btn" title="Copy a shareable link">Share</button>
  <button id="theme-btn" title="Toggle light/dark">Theme</button>
</header>
<main>
  <textarea id="editor" spellcheck="false" placeholder="Type Markdown here…"></textarea>
  <div id="preview"><p class="preview-empty">Nothing to preview yet. Start typing on the left.</p></div>
</main>
<div id="toast"></div>
<script>
(function () {
  "use strict";

  var editor = document.getElementById("editor");
  var preview = document.getElementById("preview");
  var toastEl = document.getElementById("toast");
  var maxSeq = 0;
  var restored = false;
  var fragmentLoaded = false;

  function toast(msg) {
    toastEl.textContent = msg;
    toastEl.classList.add("show");
    clearTimeout(toastEl._t);
    toastEl._t = setTimeout(function () { toastEl.classList.remove("show"); }, 2500);
  }

  function resolveTheme(t) {
    if (t === "light" || t === "dark") return t;
    return window.matchMedia("(prefers-color-scheme: dark)").matches ? "dark" : "light";
  }

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");

  ws.onopen = function () {
    var theme = resolveTheme(document.documentElement.getAttribute("data-theme"));
    document.documentElement.setAttribute("data-theme", theme);
    ws.send(JSON.stringify({ type: "theme", theme: theme }));
    loadFragment();
  };

  ws.onclose = function () { toast("Connection lost. Reload to reconnect."); };

  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    switch (msg.type) {
    case "render":
      // Drop output from superseded render cycles.
      if (msg.seq < maxSeq) return;
      maxSeq = msg.seq;
      preview.innerHTML = msg.html;
      break;
    case "diagram":
      if (msg.seq < maxSeq) return;
      var target = preview.querySelector('[data-diagram-index="' + msg.index + '"]');
      if (!target) return; // container already replaced
      target.outerHTML = msg.html;
      if (msg.status === "succeeded") {
        attachCopyButton(msg.id);
      }
      break;
    case "theme":
      document.documentElement.setAttribute("data-theme", msg.theme);
      break;
    case "restore":
      // The URL fragment takes precedence over the autosaved document.
      if (!fragmentLoaded && editor.value === "") {
        editor.value = msg.content;
        sendUpdate();
      }
      restored = true;
      break;
    }
  };

  function sendUpdate() {
    if (ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify({ type: "update", content: editor.value }));
    }
  }

  editor.addEventListener("input", sendUpdate);

  document.getElementById("theme-btn").addEventListener("click", function () {
    var next = document.documentElement.getAttribute("data-theme") === "dark" ? "light" : "dark";
    ws.send(JSON.stringify({ type: "theme", theme: next }));
  });

  document.getElementById("share-btn").addEventListener("click", function () {
    fetch("/api/share", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ content: editor.value })
    }).then(function (res) { return res.json(); }).then(function (body) {
      if (!body.fragment) { toast("Nothing to share yet"); return; }
      location.hash = body.fragment;
      return navigator.clipboard.writeText(location.href).then(
        function () { toast("Link copied to clipboard"); },
        function () { toast("Link is in the address bar"); }
      );
    }).catch(function () { toast("Sharing failed"); });
  });

  function loadFragment() {
    var frag = location.hash;
    if (!frag || frag.indexOf("#mk,") !== 0) return;
    fetch("/api/share/decode", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ fragment: frag })
    }).then(function (res) {
      if (!res.ok) throw new Error("bad token");
      return res.json();
    }).then(function (body) {
      fragmentLoaded = true;
      editor.value = body.content;
      sendUpdate();
    }).catch(function () {
      // Malformed tokens are a silent no-op.
    });
  }

  function attachCopyButton(id) {
    var container = document.getElementById("diagram-" + id);
    if (!container || container.querySelector(".diagram-copy")) return;
    var btn = document.createElement("button");
    btn.className = "diagram-copy";
    btn.textContent = "Copy image";
    btn.addEventListener("click", function () { copyDiagramImage(container); });
    container.appendChild(btn);
  }

  function copyDiagramImage(container) {
    var svg = container.querySelector("svg");
    if (!svg) { toast("No image to copy"); return; }
    try {
      var data = new XMLSerializer().serializeToString(svg);
      var img = new Image();
      var url = URL.createObjectURL(new Blob([data], { type: "image/svg+xml" }));
      img.onload = function () {
        var canvas = document.createElement("canvas");
        canvas.width = img.width || 800;
        canvas.height = img.height || 600;
        canvas.getContext("2d").drawImage(img, 0, 0);
        URL.revokeObjectURL(url);
        canvas.toBlob(function (blob) {
          if (!blob) { toast("Copy failed"); return; }
          navigator.clipboard.write([new ClipboardItem({ "image/png": blob })]).then(
            function () { toast("Image copied"); },
            function () { toast("Clipboard unavailable"); }
          );
        });
      };
      img.onerror = function () { URL.revokeObjectURL(url); toast("Copy failed"); };
      img.src = url;
    } catch (e) {
      toast("Copy failed");
    }
  }
})();
</script>
</body>
</html>
`
