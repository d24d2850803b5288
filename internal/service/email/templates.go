package email

// Email templates using HTML

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #b45309, #92400e); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .button { display: inline-block; background: #b45309; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .features { margin: 20px 0; }
        .feature { padding: 10px 0; border-bottom: 1px solid #e5e7eb; }
        .feature:last-child { border-bottom: none; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Comanda</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Digital order tickets for your restaurant</p>
    </div>
    <div class="content">
        <h2>Welcome, {{.UserName}}!</h2>
        <p>Your Comanda account is ready.</p>

        <div class="features">
            <h3>What you can do:</h3>
            <div class="feature">Take dine-in, takeout and delivery orders</div>
            <div class="feature">Speak an order and review the extracted draft</div>
            <div class="feature">Follow tickets through the kitchen in real time</div>
            <div class="feature">86 items the moment the kitchen runs out</div>
            <div class="feature">Settle cards, cash and PIX at the counter</div>
        </div>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/dashboard" class="button">Get Started</a>
        </p>

        <p>If you have any questions, our support team is here to help.</p>
    </div>
    <div class="footer">
        <p>&copy; 2024 Comanda. All rights reserved.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #b45309, #92400e); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 8px; text-align: left; border-bottom: 1px solid #e5e7eb; }
        th { color: #6b7280; font-size: 12px; text-transform: uppercase; }
        .totals td { border-bottom: none; padding: 4px 8px; }
        .grand-total { font-weight: 700; font-size: 16px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Comanda</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Order #{{.OrderNumber}}</p>
    </div>
    <div class="content">
        <h2>Thanks for your order!</h2>
        <p>Placed at {{.PlacedAt}}{{if .Method}}, paid by {{.Method}}{{end}}.</p>

        <table>
            <tr><th>Item</th><th>Qty</th><th>Total</th></tr>
            {{range .Lines}}
            <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{$.Currency}} {{.Total}}</td></tr>
            {{end}}
        </table>

        <table class="totals">
            <tr><td>Subtotal</td><td style="text-align: right;">{{.Currency}} {{.Subtotal}}</td></tr>
            <tr><td>Service fee</td><td style="text-align: right;">{{.Currency}} {{.ServiceFee}}</td></tr>
            <tr><td>Delivery fee</td><td style="text-align: right;">{{.Currency}} {{.DeliveryFee}}</td></tr>
            <tr class="grand-total"><td>Total</td><td style="text-align: right;">{{.Currency}} {{.Total}}</td></tr>
        </table>
    </div>
    <div class="footer">
        <p>&copy; 2024 Comanda. All rights reserved.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`

const orderReadyTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #b45309, #92400e); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .success { background: #d1fae5; border: 1px solid #10b981; padding: 15px; border-radius: 8px; margin: 20px 0; text-align: center; font-size: 18px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Comanda</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Order #{{.OrderNumber}}</p>
    </div>
    <div class="content">
        <h2>{{if .CustomerName}}{{.CustomerName}}, your{{else}}Your{{end}} order is ready!</h2>
        <div class="success">Order #{{.OrderNumber}} is ready for {{if eq .OrderType "delivery"}}delivery{{else}}pickup{{end}}.</div>
    </div>
    <div class="footer">
        <p>&copy; 2024 Comanda. All rights reserved.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`

const passwordResetTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #b45309, #92400e); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .button { display: inline-block; background: #b45309; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .warning { background: #fef3c7; border: 1px solid #f59e0b; padding: 15px; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Comanda</h1>
    </div>
    <div class="content">
        <h2>Reset your password</h2>
        <p>Hi {{.UserName}},</p>
        <p>We received a request to reset your password. Click the button below to choose a new one.</p>

        <p style="text-align: center;">
            <a href="{{.ResetURL}}" class="button">Reset Password</a>
        </p>

        <div class="warning">
            If you did not request a password reset, you can safely ignore this email. The link expires in one hour.
        </div>
    </div>
    <div class="footer">
        <p>&copy; 2024 Comanda. All rights reserved.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`
