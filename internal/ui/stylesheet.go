package ui

const reportCSS = `
:root { color-scheme: light dark; }
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f6f8fa; color: #1f2328; }
.shell { max-width: 1200px; margin: 0 auto; padding: 24px 16px; }
.topbar { display: flex; align-items: baseline; justify-content: space-between; margin-bottom: 16px; }
.topbar h1 { margin: 0; font-size: 22px; }
.muted { color: #656d76; font-size: 13px; }
.card { background: #fff; border: 1px solid #d1d9e0; border-radius: 8px; padding: 16px; margin-bottom: 16px; }
.card.error { border-color: #cf222e; }
.card label { display: block; font-weight: 600; margin-bottom: 4px; }
.card textarea { width: 100%; font-family: ui-monospace, monospace; font-size: 13px; padding: 8px; border: 1px solid #d1d9e0; border-radius: 6px; margin-bottom: 8px; }
.card button { background: #1f883d; color: #fff; border: 0; border-radius: 6px; padding: 6px 14px; font-size: 14px; cursor: pointer; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(340px, 1fr)); gap: 16px; }
.outcome { margin-bottom: 0; }
.outcome-head { display: flex; align-items: center; justify-content: space-between; margin-bottom: 8px; }
.outcome-head h2 { margin: 0; font-size: 15px; font-family: ui-monospace, monospace; }
.badge { font-size: 12px; font-weight: 600; padding: 2px 8px; border-radius: 999px; }
.badge.allowed { background: #dafbe1; color: #1a7f37; }
.badge.blocked { background: #ffebe9; color: #cf222e; }
.reason { color: #cf222e; font-size: 13px; }
.table-wrap { overflow-x: auto; }
table { border-collapse: collapse; width: 100%; font-size: 13px; }
th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #d1d9e0; white-space: nowrap; }
th { color: #656d76; font-weight: 600; }
@media (prefers-color-scheme: dark) {
  body { background: #0d1117; color: #e6edf3; }
  .card { background: #161b22; border-color: #30363d; }
  .card textarea { background: #0d1117; color: #e6edf3; border-color: #30363d; }
  th, td { border-color: #30363d; }
}
`
