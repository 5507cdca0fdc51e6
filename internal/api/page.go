package api

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Web Assistant</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
#log p { white-space: pre-wrap; }
.q { font-weight: bold; }
</style>
</head>
<body>
<h1>Web Assistant</h1>
<div id="log"></div>
<form id="ask">
<input id="question" size="50" placeholder="Ask about weather, directions, or anything else" autocomplete="off">
<button type="submit">Ask</button>
</form>
<script>
const log = document.getElementById("log");
function add(cls, text) {
  const p = document.createElement("p");
  p.className = cls;
  p.textContent = text;
  log.appendChild(p);
}
document.getElementById("ask").addEventListener("submit", async (e) => {
  e.preventDefault();
  const input = document.getElementById("question");
  const question = input.value;
  input.value = "";
  add("q", question);
  try {
    const res = await fetch("/ask", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({question}),
    });
    const body = await res.json();
    add("a", body.response || body.error);
  } catch (err) {
    add("a", "Request failed: " + err);
  }
});
</script>
</body>
</html>
`
