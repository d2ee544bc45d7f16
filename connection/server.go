package connection

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authcontroller "kanban/controller/auth"
	taskcontroller "kanban/controller/task"
	usercontroller "kanban/controller/user"
	"kanban/services"
	"kanban/store"
)

func StartServer() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	router := gin.Default()
	router.Use(cors.Default())

	fb, err := FBConnection()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore client: %v", err)
	}

	tasks := store.NewFirestoreTaskStore(fb)
	users := store.NewFirestoreUserStore(fb)
	taskService := services.NewTaskService(tasks, users, logger)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	authcontroller.SignUpController(router, users)
	authcontroller.SignInController(router, users)
	usercontroller.UserController(router, users)

	taskcontroller.CreateTaskController(router, taskService)
	taskcontroller.ListTasksController(router, taskService)
	taskcontroller.GetTaskController(router, taskService)
	taskcontroller.UpdateTaskController(router, taskService)
	taskcontroller.DeleteTaskController(router, taskService)
	taskcontroller.SubtaskController(router, taskService)

	logger.Info("server starting")
	router.Run()
}
