package html

// RunIndexTemplate is the HTML index page of a split run
const RunIndexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Split Report - {{.SourceName}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: linear-gradient(135deg, #366092 0%, #1f3a5f 100%);
            color: white;
            padding: 40px 20px;
            margin-bottom: 30px;
            border-radius: 8px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
        }

        header h1 {
            font-size: 2.2em;
            margin-bottom: 10px;
        }

        header p {
            font-size: 1.05em;
            opacity: 0.9;
        }

        .summary {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .summary h2 {
            color: #366092;
            margin-bottom: 15px;
            font-size: 1.5em;
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 15px;
        }

        .stat-card {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 6px;
            border-left: 4px solid #366092;
        }

        .stat-card .label {
            font-size: 0.9em;
            color: #6c757d;
            margin-bottom: 5px;
        }

        .stat-card .value {
            font-size: 1.8em;
            font-weight: bold;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
            border-radius: 8px;
            overflow: hidden;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        th {
            background: #f8f9fa;
            padding: 12px;
            text-align: left;
            font-weight: 600;
            color: #495057;
            border-bottom: 2px solid #dee2e6;
        }

        td {
            padding: 12px;
            border-bottom: 1px solid #e9ecef;
        }

        tr:hover {
            background: #f8f9fa;
        }

        .status-badge {
            display: inline-block;
            padding: 4px 10px;
            border-radius: 4px;
            font-weight: bold;
            font-size: 0.8em;
            text-transform: uppercase;
            color: white;
        }
        .status-succeeded { background: #49cc90; }
        .status-failed { background: #f93e3e; }
        .status-skipped { background: #fca130; }
        .status-pending { background: #6c757d; }

        .error {
            color: #d32f2f;
            font-size: 0.9em;
        }

        footer {
            text-align: center;
            padding: 30px 20px;
            color: #6c757d;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Split Report</h1>
            <p>{{.SourceName}} · sheet {{.Sheet}} · column {{.Column}} · {{.Strategy}}</p>
        </header>

        <div class="summary">
            <h2>Overview</h2>
            <div class="stats">
                <div class="stat-card">
                    <div class="label">Groups</div>
                    <div class="value">{{.Total}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Succeeded</div>
                    <div class="value">{{.Succeeded}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Failed</div>
                    <div class="value">{{.Failed}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Data Rows</div>
                    <div class="value">{{.TotalRows}}</div>
                </div>
                <div class="stat-card">
                    <div class="label">Rows Without Key</div>
                    <div class="value">{{.UnassignedRows}}</div>
                </div>
            </div>
        </div>

        <table>
            <thead>
                <tr>
                    <th>#</th>
                    <th>Key</th>
                    <th>Email</th>
                    <th>Workbook</th>
                    <th>Visible</th>
                    <th>Hidden</th>
                    <th>Status</th>
                </tr>
            </thead>
            <tbody>
                {{range $i, $a := .Rows}}
                <tr>
                    <td>{{inc $i}}</td>
                    <td>{{$a.Key}}</td>
                    <td>{{$a.Email}}</td>
                    <td>{{if $a.Link}}<a href="{{$a.Link}}">{{$a.Folder}}</a>{{else}}{{$a.Folder}}{{end}}</td>
                    <td>{{$a.Visible}}</td>
                    <td>{{$a.Hidden}}</td>
                    <td>
                        <span class="status-badge {{statusClass $a.Status}}">{{$a.Status}}</span>
                        {{if $a.Error}}<div class="error">{{$a.Error}}</div>{{end}}
                    </td>
                </tr>
                {{end}}
            </tbody>
        </table>

        <footer>
            Generated {{.Generated}}
        </footer>
    </div>
</body>
</html>
`
