package frontend

import "html/template"

// Templates holds the gateway's server-rendered login and dashboard
// pages.
var Templates = template.Must(template.New("gateway").Parse(`
{{define "login"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Sign in</title>
</head>
<body>
  <h1>OAuth Demo</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <p><a href="/auth/initiate">Sign in with Google</a></p>
</body>
</html>
{{end}}

{{define "dashboard"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Dashboard</title>
</head>
<body>
  <h1>Welcome, {{.User.Name}}</h1>
  <p>{{.User.Email}} ({{.User.Role}})</p>
  <ul>
    <li><a href="/api/user/resources">My resources</a></li>
    <li><a href="/api/user/profile">My profile</a></li>
    {{if .IsAdmin}}
    <li><a href="/api/admin/resources">Admin resources</a></li>
    <li><a href="/api/admin/stats">System stats</a></li>
    <li><a href="/api/admin/users">Managed users</a></li>
    {{end}}
  </ul>
  <p><a href="/logout">Sign out</a></p>
</body>
</html>
{{end}}
`))
