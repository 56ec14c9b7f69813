// Package logger expone un logger Zap global con scoping por contexto.
//
// main inicializa el logger una vez:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "syndik"})
//	defer logger.Sync()
//
// Los middlewares inyectan un logger con request_id, user_id y residence_id;
// controllers y services lo recuperan con From(ctx):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("payments.Verify"))
//	log.Info("pago verificado", logger.PaymentID(id), logger.Amount(int64(p.Amount)))
//
// En "dev" la salida es consola con colores; en "prod" es JSON.
package logger
