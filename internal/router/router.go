package router

import (
	"time"

	"clinicaja/internal/config"
	"clinicaja/internal/handler"
	"clinicaja/internal/middleware"
	"clinicaja/internal/repository"
	"clinicaja/internal/service"
	"clinicaja/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	umbral, err := decimal.NewFromString(cfg.UmbralDescuadre)
	if err != nil {
		umbral = decimal.NewFromInt(10)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	pacienteRepo := repository.NewPacienteRepository(db)
	profesionalRepo := repository.NewProfesionalRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	solicitudRepo := repository.NewSolicitudRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	liquidacionRepo := repository.NewLiquidacionRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	auditor := service.NewAuditor(dispatcher)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	pacienteSvc := service.NewPacienteService(pacienteRepo)
	profesionalSvc := service.NewProfesionalService(profesionalRepo)
	servicioSvc := service.NewServicioService(servicioRepo)
	solicitudSvc := service.NewSolicitudService(solicitudRepo, pacienteRepo, profesionalRepo, servicioRepo)
	cajaSvc := service.NewCajaService(cajaRepo, movimientoRepo, umbral, auditor)
	movimientoSvc := service.NewMovimientoService(movimientoRepo, cajaRepo, auditor)
	liquidacionSvc := service.NewLiquidacionService(liquidacionRepo, movimientoRepo, solicitudRepo, profesionalRepo, movimientoSvc, auditor, dispatcher, cfg.PDFStoragePath)
	auditoriaSvc := service.NewAuditoriaService(auditoriaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	pacientesH := handler.NewPacienteHandler(pacienteSvc)
	profesionalesH := handler.NewProfesionalHandler(profesionalSvc)
	serviciosH := handler.NewServicioHandler(servicioSvc)
	solicitudesH := handler.NewSolicitudHandler(solicitudSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	movimientosH := handler.NewMovimientoHandler(movimientoSvc)
	liquidacionesH := handler.NewLiquidacionHandler(liquidacionSvc)
	auditoriaH := handler.NewAuditoriaHandler(auditoriaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, gerente, administrador — declared per-endpoint
		todos := middleware.RequireRole("cajero", "gerente", "administrador")
		gerencia := middleware.RequireRole("gerente", "administrador")

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", todos, cajaH.Abrir)
			caja.POST("/cerrar", todos, cajaH.Cerrar)
			caja.GET("/activa", todos, cajaH.ObtenerActiva)
			caja.GET("/:id/reporte", todos, cajaH.ObtenerReporte)
			caja.GET("/historial", gerencia, cajaH.Historial)
			caja.GET("/descuadres", gerencia, cajaH.Descuadres)
		}

		movs := v1.Group("/movimientos")
		{
			movs.POST("", todos, movimientosH.Registrar)
			movs.GET("", todos, movimientosH.Listar)
			movs.GET("/:id", todos, movimientosH.Obtener)
			movs.POST("/:id/cancelar", todos, movimientosH.Cancelar)
			// Voiding on a closed session is a supervisory correction
			movs.POST("/:id/anular", gerencia, movimientosH.Anular)
		}

		liq := v1.Group("/liquidaciones")
		{
			liq.POST("/previa", gerencia, liquidacionesH.Previa)
			liq.POST("", gerencia, liquidacionesH.Generar)
			liq.GET("", gerencia, liquidacionesH.Listar)
			liq.GET("/:id", gerencia, liquidacionesH.Obtener)
			liq.POST("/:id/aprobar", gerencia, liquidacionesH.Aprobar)
			liq.POST("/:id/pagar", gerencia, liquidacionesH.Pagar)
			liq.POST("/:id/revertir-pago", gerencia, liquidacionesH.RevertirPago)
			liq.POST("/:id/cancelar", gerencia, liquidacionesH.Cancelar)
		}

		v1.POST("/solicitudes", todos, solicitudesH.Crear)
		v1.GET("/solicitudes", todos, solicitudesH.Listar)
		v1.GET("/solicitudes/:id", todos, solicitudesH.Obtener)

		// Pacientes — all roles read and write (front desk workflow)
		pacientes := v1.Group("/pacientes", todos)
		{
			pacientes.POST("", pacientesH.Crear)
			pacientes.GET("", pacientesH.Listar)
			pacientes.GET("/:id", pacientesH.Obtener)
			pacientes.PUT("/:id", pacientesH.Actualizar)
			pacientes.DELETE("/:id", pacientesH.Desactivar)
		}

		// Profesionales y servicios — lectura para todos, escritura gerencial
		v1.GET("/profesionales", todos, profesionalesH.Listar)
		v1.GET("/profesionales/:id", todos, profesionalesH.Obtener)
		profesionales := v1.Group("/profesionales", gerencia)
		{
			profesionales.POST("", profesionalesH.Crear)
			profesionales.PUT("/:id", profesionalesH.Actualizar)
			profesionales.DELETE("/:id", profesionalesH.Desactivar)
		}

		v1.GET("/servicios", todos, serviciosH.Listar)
		v1.GET("/servicios/:id", todos, serviciosH.Obtener)
		servicios := v1.Group("/servicios", gerencia)
		{
			servicios.POST("", serviciosH.Crear)
			servicios.PUT("/:id", serviciosH.Actualizar)
			servicios.DELETE("/:id", serviciosH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.POST("/:id/reactivar", authH.ReactivarUsuario)
		}

		v1.GET("/auditoria", gerencia, auditoriaH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
